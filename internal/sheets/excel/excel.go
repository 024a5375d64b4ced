// Package excel reads workbooks from and writes summaries to .xlsx files.
package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"ledgerbook/internal/core"
	ports "ledgerbook/internal/sheets"
)

var _ ports.Workbook = (*File)(nil)

// File is an .xlsx workbook on disk. Every call opens and closes the file,
// so nothing is held between a read and a later summary write.
type File struct {
	path string
}

func New(path string) *File {
	return &File{path: path}
}

// ReadWorkbook loads the formatted cell text of every sheet.
func (f *File) ReadWorkbook(_ context.Context) (*core.Workbook, error) {
	xl, err := excelize.OpenFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer xl.Close()

	wb := &core.Workbook{Source: f.path}
	for _, name := range xl.GetSheetList() {
		rows, err := xl.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, &core.Worksheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// WriteSummary replaces sheet with rows and saves the file. Amounts land in
// numeric cells. A file locked by another program fails the save and nothing
// is retried.
func (f *File) WriteSummary(_ context.Context, sheet string, rows [][]string) error {
	xl, err := excelize.OpenFile(f.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer xl.Close()

	if idx, err := xl.GetSheetIndex(sheet); err == nil && idx >= 0 {
		if err := xl.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("delete sheet %s: %w", sheet, err)
		}
	}
	if _, err := xl.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		if err := setRow(xl, sheet, i+1, row); err != nil {
			return err
		}
	}
	if err := xl.Save(); err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}
	return nil
}

// AppendRows writes rows below the last used row of sheet and saves the file.
func (f *File) AppendRows(_ context.Context, sheet string, header []string, rows [][]string, replace bool) error {
	xl, err := excelize.OpenFile(f.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer xl.Close()

	name, exists := findSheet(xl, sheet)
	if exists && replace {
		if err := xl.DeleteSheet(name); err != nil {
			return fmt.Errorf("delete sheet %s: %w", name, err)
		}
		exists = false
	}

	next := 1
	if exists {
		used, err := xl.GetRows(name)
		if err != nil {
			return fmt.Errorf("read sheet %s: %w", name, err)
		}
		next = len(used) + 1
	} else {
		name = sheet
		if _, err := xl.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		if len(header) > 0 {
			if err := setRow(xl, name, 1, header); err != nil {
				return err
			}
			next = 2
		}
	}

	for i, row := range rows {
		if err := setRow(xl, name, next+i, row); err != nil {
			return err
		}
	}
	if err := xl.Save(); err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}
	return nil
}

// findSheet returns the stored name of sheet, matched case-insensitively.
func findSheet(xl *excelize.File, sheet string) (string, bool) {
	want := strings.TrimSpace(sheet)
	for _, name := range xl.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name, true
		}
	}
	return "", false
}

// setRow writes row at 1-based row r, amounts as numbers.
func setRow(xl *excelize.File, sheet string, r int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for j, v := range row {
		values[j] = ports.CellValue(v)
	}
	if err := xl.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
