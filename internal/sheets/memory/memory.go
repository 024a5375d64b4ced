package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ledgerbook/internal/core"
	ports "ledgerbook/internal/sheets"
)

var _ ports.Workbook = (*Store)(nil)

// Store is an in-memory workbook. Stores loaded from a CSV directory also
// persist summaries there as <sheet>.csv.
type Store struct {
	mu        sync.Mutex
	wb        *core.Workbook
	dir       string
	summaries map[string][][]string
}

func New(wb *core.Workbook) *Store {
	if wb == nil {
		wb = &core.Workbook{Source: "memory"}
	}
	return &Store{wb: wb, summaries: map[string][][]string{}}
}

// NewFromCSVDir loads every *.csv file of dir as one worksheet named after
// the file.
func NewFromCSVDir(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read csv dir: %w", err)
	}
	wb := &core.Workbook{Source: dir}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		rows, err := readCSV(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		wb.Sheets = append(wb.Sheets, &core.Worksheet{Name: name, Rows: rows})
	}
	s := New(wb)
	s.dir = dir
	return s, nil
}

// ReadWorkbook returns a copy of the stored workbook.
func (s *Store) ReadWorkbook(_ context.Context) (*core.Workbook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := &core.Workbook{Source: s.wb.Source, Sheets: make([]*core.Worksheet, 0, len(s.wb.Sheets))}
	for _, ws := range s.wb.Sheets {
		out.Sheets = append(out.Sheets, &core.Worksheet{Name: ws.Name, Rows: copyRows(ws.Rows)})
	}
	return out, nil
}

// WriteSummary keeps rows under sheet, replacing earlier ones.
func (s *Store) WriteSummary(_ context.Context, sheet string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[core.Key(sheet)] = copyRows(rows)
	if s.dir == "" {
		return nil
	}
	return writeCSV(filepath.Join(s.dir, sheet+".csv"), rows)
}

// AppendRows adds rows to sheet, creating or restarting it from header. CSV
// backed stores rewrite <sheet>.csv.
func (s *Store) AppendRows(_ context.Context, sheet string, header []string, rows [][]string, replace bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.wb.Sheet(sheet)
	if ok && replace {
		ws.Rows = nil
	}
	if !ok {
		ws = &core.Worksheet{Name: sheet}
		s.wb.Sheets = append(s.wb.Sheets, ws)
	}
	if len(ws.Rows) == 0 && len(header) > 0 {
		ws.Rows = [][]string{append([]string(nil), header...)}
	}
	ws.Rows = append(ws.Rows, copyRows(rows)...)

	if s.dir == "" {
		return nil
	}
	return writeCSV(filepath.Join(s.dir, ws.Name+".csv"), ws.Rows)
}

// ReadCSVFile loads one CSV file as a worksheet named after the file.
func ReadCSVFile(path string) (*core.Worksheet, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &core.Worksheet{Name: name, Rows: rows}, nil
}

// Summary returns the rows last written under sheet.
func (s *Store) Summary(sheet string) ([][]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.summaries[core.Key(sheet)]
	return copyRows(rows), ok
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func copyRows(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}
