package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ledgerbook/internal/core"
	"ledgerbook/internal/engine"
	"ledgerbook/internal/log"
	"ledgerbook/internal/sheets"
	"ledgerbook/internal/sheets/memory"
	"ledgerbook/internal/storage"
)

func books() *core.Workbook {
	return &core.Workbook{Source: "books", Sheets: []*core.Worksheet{
		{Name: "Setup", Rows: [][]string{
			{"Category", "Sub-Category", "Type", "Report", "", "Vendors", "Customers", "", "Sheet Name", "Account Type", "Flip Polarity?", "Header Row"},
			{"Sales", "General", "Income", "P&L", "", "Amazon", "Client XYZ", "", "Bank Transactions", "Bank", "No", "1"},
			{"Rent", "Office", "Expense", "P&L"},
			{"Checking Account", "Bank", "Asset", "Balance Sheet"},
		}},
		{Name: "Bank Transactions", Rows: [][]string{
			{"Date", "Description", "Amount", "Category", "Sub-Category", "", "Vendor", "Customer"},
			{"2025-01-05", "Rent Payment", "-1000", "Rent"},
			{"2025-01-09", "Mystery", "-25", "Travel"},
		}},
		{Name: "Ledger", Rows: [][]string{
			{"Date", "Description", "Category", "Sub-Category", "Vendor", "Customer", "Debit", "Credit"},
		}},
	}}
}

type fakeArchive struct {
	mu   sync.Mutex
	runs []storage.Run
	err  error
}

func (a *fakeArchive) SaveRun(_ context.Context, run storage.Run) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	a.runs = append(a.runs, run)
	return run.ID, nil
}

type failingReader struct{}

func (failingReader) ReadWorkbook(context.Context) (*core.Workbook, error) {
	return nil, errors.New("quota exceeded")
}

type failingWriter struct{}

func (failingWriter) WriteSummary(context.Context, string, [][]string) error {
	return errors.New("sheet is protected")
}

func newService(store *memory.Store, summary sheets.SummaryWriter, archive RunArchive) *ReportService {
	s := NewReportService(store, summary, archive, Options{Engine: engine.DefaultOptions()})
	s.now = func() time.Time { return time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestRunWritesSummaryAndArchives(t *testing.T) {
	store := memory.New(books())
	archive := &fakeArchive{}
	out, err := newService(store, store, archive).Run(context.Background(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.RunID == "" {
		t.Fatal("expected run id")
	}
	if got := out.Report.NetIncome.StringFixed(2); got != "-1000.00" {
		t.Errorf("net income = %s", got)
	}
	if out.IssueCount() != 1 {
		t.Errorf("issues = %d", out.IssueCount())
	}

	rows, ok := store.Summary("Summary")
	if !ok {
		t.Fatal("summary sheet not written")
	}
	if len(rows) != len(out.Summary) || rows[0][0] != "Ledger Summary" {
		t.Fatalf("summary rows = %v", rows)
	}

	if len(archive.runs) != 1 {
		t.Fatalf("archived %d runs", len(archive.runs))
	}
	run := archive.runs[0]
	if run.ID != out.RunID || run.NetIncome != "-1000.00" || run.SheetCount != 1 {
		t.Errorf("archived run = %+v", run)
	}
	if len(run.Integrity) != 1 || run.Integrity[0].Kind != string(engine.IllegalCategory) || run.Integrity[0].Value != "Travel" {
		t.Errorf("archived integrity = %+v", run.Integrity)
	}
}

func TestRunPrintOnlySkipsSummary(t *testing.T) {
	store := memory.New(books())
	if _, err := newService(store, store, nil).Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := store.Summary("Summary"); ok {
		t.Fatal("summary written in print-only mode")
	}
}

func TestRunAbortsOnReadFailure(t *testing.T) {
	archive := &fakeArchive{}
	s := NewReportService(failingReader{}, nil, archive, Options{})
	out, err := s.Run(context.Background(), false)
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v", err)
	}
	if out != nil || len(archive.runs) != 0 {
		t.Fatal("nothing should be produced when the read fails")
	}
}

func TestRunMissingLedgerSheet(t *testing.T) {
	wb := books()
	wb.Sheets = wb.Sheets[:2]
	_, err := newService(memory.New(wb), nil, nil).Run(context.Background(), false)
	if !errors.Is(err, core.ErrMissingSheet) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunNoSource(t *testing.T) {
	_, err := NewReportService(nil, nil, nil, Options{}).Run(context.Background(), false)
	if !errors.Is(err, sheets.ErrNoSource) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunSinkFailureKeepsOutcome(t *testing.T) {
	store := memory.New(books())
	out, err := newService(store, failingWriter{}, &fakeArchive{}).Run(context.Background(), false)
	if err == nil || !strings.Contains(err.Error(), "sheet is protected") {
		t.Fatalf("err = %v", err)
	}
	if out == nil || out.Report == nil {
		t.Fatal("outcome should survive a sink failure")
	}
}

func TestRunWithSQLiteArchive(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	s := newService(memory.New(books()), nil, repo)
	defer s.Close()

	out, err := s.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	run, err := repo.GetRun(context.Background(), out.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.NetIncome != "-1000.00" || len(run.Lines) != len(out.Summary) {
		t.Fatalf("archived run = %+v", run)
	}
}

func TestRunTagsLogsWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Component: log.ComponentWorker, Output: &buf})
	ctx := log.WithRun(log.WithContext(context.Background(), logger), "", "req-7")

	store := memory.New(books())
	out, err := newService(store, store, &fakeArchive{}).Run(ctx, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %q", buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "run_id="+out.RunID) || !strings.Contains(line, "request_id=req-7") {
			t.Errorf("line not tagged: %q", line)
		}
	}
}
