package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ledgerbook/internal/engine"
	"ledgerbook/internal/log"
	"ledgerbook/internal/report"
	"ledgerbook/internal/sheets"
	"ledgerbook/internal/storage"
)

// RunArchive stores completed runs.
type RunArchive interface {
	SaveRun(ctx context.Context, run storage.Run) (string, error)
}

// Options configures a ReportService.
type Options struct {
	Engine       engine.Options
	SummarySheet string
}

// Outcome is everything one run produced.
type Outcome struct {
	RunID       string
	GeneratedAt time.Time
	Result      *engine.Result
	Report      *report.Report
	Integrity   report.IntegrityReport
	Summary     [][]string
}

// IssueCount is the number of integrity records raised by the run.
func (o *Outcome) IssueCount() int {
	if o == nil || o.Result == nil {
		return 0
	}
	return len(o.Result.State.Records())
}

// ReportService orchestrates one report run: a scoped workbook read, the
// aggregation, and delivery to the optional summary sheet and run archive.
type ReportService struct {
	reader  sheets.WorkbookReader
	summary sheets.SummaryWriter
	archive RunArchive
	opts    Options
	now     func() time.Time
}

// NewReportService wires a service. summary and archive may be nil.
func NewReportService(reader sheets.WorkbookReader, summary sheets.SummaryWriter, archive RunArchive, opts Options) *ReportService {
	if opts.SummarySheet == "" {
		opts.SummarySheet = "Summary"
	}
	return &ReportService{
		reader:  reader,
		summary: summary,
		archive: archive,
		opts:    opts,
		now:     time.Now,
	}
}

// Run reads the workbook and builds every report. Unless printOnly is set
// the summary table is written back to the workbook. Sink failures are
// returned together with the outcome, which stays usable. The logger in ctx
// is tagged with the run id for the rest of the run.
func (s *ReportService) Run(ctx context.Context, printOnly bool) (*Outcome, error) {
	if s.reader == nil {
		return nil, sheets.ErrNoSource
	}

	runID := uuid.NewString()
	ctx = log.WithRun(ctx, runID, "")
	logger := log.FromContext(ctx)

	wb, err := s.reader.ReadWorkbook(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Workbook read failed", log.FieldError, err)
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	res, err := engine.Run(wb, s.opts.Engine)
	if err != nil {
		return nil, fmt.Errorf("aggregate workbook: %w", err)
	}

	out := &Outcome{
		RunID:       runID,
		GeneratedAt: s.now(),
		Result:      res,
		Report:      report.Build(res),
		Integrity:   report.Integrity(res),
	}
	out.Summary = report.SummaryTable(out.Report, out.Integrity, out.GeneratedAt)

	logger.InfoContext(ctx, "Report built",
		log.FieldSource, res.Source,
		"sheets", len(res.Sheets),
		log.FieldNetIncome, out.Report.NetIncome.StringFixed(2),
		log.FieldIssues, out.IssueCount())

	return out, s.deliver(ctx, out, printOnly)
}

func (s *ReportService) deliver(ctx context.Context, out *Outcome, printOnly bool) error {
	g, gctx := errgroup.WithContext(ctx)

	if s.summary != nil && !printOnly {
		g.Go(func() error {
			if err := s.summary.WriteSummary(gctx, s.opts.SummarySheet, out.Summary); err != nil {
				return fmt.Errorf("write summary sheet %q: %w", s.opts.SummarySheet, err)
			}
			log.FromContext(gctx).InfoContext(gctx, "Summary sheet written", log.FieldSheet, s.opts.SummarySheet, "rows", len(out.Summary))
			return nil
		})
	}

	if s.archive != nil {
		g.Go(func() error {
			if _, err := s.archive.SaveRun(gctx, archiveRun(out)); err != nil {
				return fmt.Errorf("archive run: %w", err)
			}
			log.FromContext(gctx).DebugContext(gctx, "Run archived")
			return nil
		})
	}

	return g.Wait()
}

func archiveRun(out *Outcome) storage.Run {
	run := storage.Run{
		ID:          out.RunID,
		Source:      out.Result.Source,
		GeneratedAt: out.GeneratedAt,
		NetIncome:   out.Report.NetIncome.StringFixed(2),
		SheetCount:  len(out.Result.Sheets),
		IssueCount:  out.IssueCount(),
		Lines:       out.Summary,
	}
	for _, r := range out.Result.State.Records() {
		run.Integrity = append(run.Integrity, storage.IntegrityRecord{
			Sheet:  r.Sheet,
			Kind:   string(r.Kind),
			Row:    r.Row,
			Value:  r.Value,
			Amount: r.Amount.StringFixed(2),
		})
	}
	return run
}

// Close releases the archive when it holds resources.
func (s *ReportService) Close() error {
	var errs []error

	if c, ok := s.archive.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("archive: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close report service: %w", errors.Join(errs...))
	}

	return nil
}
