package sheets

import (
	"context"
	"errors"

	"ledgerbook/internal/core"
)

// ErrNoSource is returned when no workbook source is configured.
var ErrNoSource = errors.New("no workbook source configured")

// Ports for outbound adapters.
type (
	// WorkbookReader loads every worksheet of a workbook in one scoped read.
	// A failed read yields no workbook at all.
	WorkbookReader interface {
		ReadWorkbook(ctx context.Context) (*core.Workbook, error)
	}

	// SummaryWriter replaces the named sheet with rows.
	SummaryWriter interface {
		WriteSummary(ctx context.Context, sheet string, rows [][]string) error
	}

	// RowAppender adds rows below the last used row of sheet. A missing
	// sheet is created with header as its first row. With replace set the
	// existing rows are dropped and the sheet starts over from header.
	RowAppender interface {
		AppendRows(ctx context.Context, sheet string, header []string, rows [][]string, replace bool) error
	}

	// Workbook is a source that can also receive the summary and imported rows.
	Workbook interface {
		WorkbookReader
		SummaryWriter
		RowAppender
	}
)
