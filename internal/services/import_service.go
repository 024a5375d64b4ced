package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledgerbook/internal/core"
	"ledgerbook/internal/headers"
	"ledgerbook/internal/importer"
	"ledgerbook/internal/log"
	"ledgerbook/internal/setup"
	"ledgerbook/internal/sheets"
)

// HistorySheet receives one line per import.
const HistorySheet = "VERSION"

var historyHeader = []string{"--- Import History ---", ""}

// ImportRequest describes one statement import.
type ImportRequest struct {
	Statement *core.Worksheet
	Filename  string
	Kind      setup.Kind
	Replace   bool // drop the target sheet's rows first
}

// ImportOutcome reports what an import wrote.
type ImportOutcome struct {
	Sheet    string
	Account  string
	Imported int
	Skipped  int
	Created  bool // the target sheet was created or restarted from the template
}

// ImportService appends statement exports to the transaction sheet the
// taxonomy names for their account family.
type ImportService struct {
	reader     sheets.WorkbookReader
	writer     sheets.RowAppender
	setupSheet string
	now        func() time.Time
}

// NewImportService wires a service reading the workbook through reader and
// writing through writer, usually the same adapter.
func NewImportService(reader sheets.WorkbookReader, writer sheets.RowAppender, setupSheet string) *ImportService {
	if setupSheet == "" {
		setupSheet = "Setup"
	}
	return &ImportService{reader: reader, writer: writer, setupSheet: setupSheet, now: time.Now}
}

// Import parses req.Statement and appends its transactions. The statement is
// parsed before the workbook is touched, so a bad export changes nothing.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportOutcome, error) {
	if s.reader == nil || s.writer == nil {
		return nil, sheets.ErrNoSource
	}
	logger := log.FromContext(ctx)

	stmt, err := importer.Parse(req.Statement, req.Filename, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("parse statement: %w", err)
	}

	wb, err := s.reader.ReadWorkbook(ctx)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	configured := setup.DefaultSheets
	if ws, ok := wb.Sheet(s.setupSheet); ok {
		cfg, err := setup.Load(ws)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		configured = cfg.Sheets
	}
	target := importer.Target(configured, req.Kind)

	out := &ImportOutcome{
		Sheet:    target.SheetName,
		Account:  stmt.Account,
		Imported: len(stmt.Transactions),
		Skipped:  stmt.Skipped,
	}

	template := importer.Template(req.Kind)
	header := template
	existing, ok := wb.Sheet(target.SheetName)
	if ok && !req.Replace {
		res := headers.Resolve(existing, target.HeaderOffset, req.Kind.Layout())
		if res.HeaderRow > 0 {
			header = existing.Row(res.HeaderRow)
		}
	} else {
		out.Created = true
	}

	rows := stmt.Rows(header, req.Kind)
	if len(rows) > 0 || req.Replace {
		if err := s.writer.AppendRows(ctx, target.SheetName, template, rows, req.Replace); err != nil {
			return nil, fmt.Errorf("append to %s: %w", target.SheetName, err)
		}
	}

	logger.InfoContext(ctx, "Statement imported",
		log.FieldSheet, out.Sheet,
		"account", out.Account,
		"imported", out.Imported,
		"skipped", out.Skipped,
		"created", out.Created)

	if err := s.writer.AppendRows(ctx, HistorySheet, historyHeader, [][]string{s.historyLine(req, out)}, false); err != nil {
		logger.WarnContext(ctx, "Import history not recorded", log.FieldError, err)
	}
	return out, nil
}

func (s *ImportService) historyLine(req ImportRequest, out *ImportOutcome) []string {
	detail := []string{
		"Input: " + req.Filename,
		"Target Sheet: " + out.Sheet,
		fmt.Sprintf("Rows: %d imported, %d skipped", out.Imported, out.Skipped),
	}
	if req.Replace {
		detail = append(detail, "Existing rows cleared")
	}
	if out.Account != "" {
		detail = append(detail, "Account: "+out.Account)
	}
	return []string{"Import at " + s.now().Format(time.RFC3339), strings.Join(detail, "\n")}
}
