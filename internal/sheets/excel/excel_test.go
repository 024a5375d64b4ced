package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeBook(t *testing.T, sheets map[string][][]string, order []string) string {
	t.Helper()
	xl := excelize.NewFile()
	defer xl.Close()
	for _, name := range order {
		if _, err := xl.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for i, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := xl.SetSheetRow(name, cell, &values); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := xl.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete default sheet: %v", err)
	}
	path := filepath.Join(t.TempDir(), "books.xlsx")
	if err := xl.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeBook(t, map[string][][]string{
		"Setup":  {{"Category", "Type", "Report"}, {"Rent", "Expense", "P&L"}},
		"Ledger": {{"Date", "Description", "Category", "Debit", "Credit"}},
	}, []string{"Setup", "Ledger"})

	wb, err := New(path).ReadWorkbook(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if wb.Source != path || len(wb.Sheets) != 2 {
		t.Fatalf("workbook = %v", wb.Names())
	}
	setup, ok := wb.Sheet("Setup")
	if !ok || setup.Row(2)[0] != "Rent" {
		t.Fatalf("setup = %+v", setup)
	}
}

func TestWriteSummaryReplacesSheet(t *testing.T) {
	path := writeBook(t, map[string][][]string{
		"Setup":   {{"Category"}},
		"Summary": {{"stale"}, {"stale"}, {"stale"}},
	}, []string{"Setup", "Summary"})

	f := New(path)
	if err := f.WriteSummary(context.Background(), "Summary", [][]string{{"Net Income", "-10.50"}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	xl, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	isText := func(typ excelize.CellType) bool {
		return typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString
	}
	if typ, err := xl.GetCellType("Summary", "B1"); err != nil || isText(typ) {
		t.Errorf("B1 type = %v, err = %v, want a numeric cell", typ, err)
	}
	if typ, _ := xl.GetCellType("Summary", "A1"); !isText(typ) {
		t.Errorf("A1 type = %v, want text", typ)
	}
	xl.Close()

	wb, err := f.ReadWorkbook(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sum, ok := wb.Sheet("Summary")
	if !ok || sum.Len() != 1 || sum.Row(1)[1] != "-10.5" {
		t.Fatalf("summary = %+v", sum)
	}
	if _, ok := wb.Sheet("Setup"); !ok {
		t.Fatal("setup sheet lost")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.xlsx")).ReadWorkbook(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAppendRows(t *testing.T) {
	path := writeBook(t, map[string][][]string{
		"Setup":             {{"Category"}},
		"Bank Transactions": {{"Date", "Description", "Amount"}, {"2025-01-02", "Coffee", "-4"}},
	}, []string{"Setup", "Bank Transactions"})
	f := New(path)
	ctx := context.Background()

	if err := f.AppendRows(ctx, "bank transactions", []string{"ignored"}, [][]string{{"2025-01-03", "Rent", "-1000"}}, false); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := f.AppendRows(ctx, "VERSION", []string{"Import History", ""}, [][]string{{"Import at now", "detail"}}, false); err != nil {
		t.Fatalf("append new sheet: %v", err)
	}

	wb, err := f.ReadWorkbook(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	bank, _ := wb.Sheet("Bank Transactions")
	if bank.Len() != 3 || bank.Row(3)[1] != "Rent" || bank.Row(3)[2] != "-1000" {
		t.Fatalf("bank = %+v", bank.Rows)
	}
	version, ok := wb.Sheet("VERSION")
	if !ok || version.Len() != 2 || version.Row(1)[0] != "Import History" {
		t.Fatalf("version = %+v", version)
	}

	if err := f.AppendRows(ctx, "Bank Transactions", []string{"Date", "Description", "Amount"}, [][]string{{"2025-02-01", "Fee", "-2"}}, true); err != nil {
		t.Fatalf("replace: %v", err)
	}
	wb, err = f.ReadWorkbook(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	bank, _ = wb.Sheet("Bank Transactions")
	if bank.Len() != 2 || bank.Row(1)[0] != "Date" || bank.Row(2)[1] != "Fee" {
		t.Fatalf("replaced bank = %+v", bank.Rows)
	}
}
