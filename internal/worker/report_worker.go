package worker

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/amqp"
	"ledgerbook/internal/log"
	"ledgerbook/internal/services"
)

// Runner runs one report.
type Runner interface {
	Run(ctx context.Context, printOnly bool) (*services.Outcome, error)
}

// Publisher announces finished runs.
type Publisher interface {
	PublishReportCompleted(ctx context.Context, msg *amqp.ReportCompletedMessage) error
}

// ReportWorker runs the report once per request received from AMQP.
type ReportWorker struct {
	runner    Runner
	publisher Publisher
	now       func() time.Time
}

// NewReportWorker wires a worker. publisher may be nil.
func NewReportWorker(runner Runner, publisher Publisher) *ReportWorker {
	return &ReportWorker{runner: runner, publisher: publisher, now: time.Now}
}

// HandleReportRequest processes a single report request. The completion
// message is published whether or not the run succeeded; the run error is
// returned so the consumer can decide on redelivery. Logs for the request,
// the run's included, carry its request id.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	ctx = log.WithRun(ctx, "", msg.RequestID)
	logger := log.FromContext(ctx)

	logger.InfoContext(ctx, "Processing report request",
		"print_only", msg.PrintOnly,
		"requested_at", msg.RequestedAt)

	start := w.now()
	out, runErr := w.runner.Run(ctx, msg.PrintOnly)

	completed := &amqp.ReportCompletedMessage{
		RequestID:   msg.RequestID,
		CompletedAt: w.now(),
	}
	if out != nil {
		completed.RunID = out.RunID
		completed.Source = out.Result.Source
		completed.NetIncome = out.Report.NetIncome.StringFixed(2)
		completed.IssueCount = out.IssueCount()
	}
	if runErr != nil {
		completed.Error = runErr.Error()
		logger.ErrorContext(ctx, "Report run failed", log.FieldError, runErr)
	} else {
		logger.InfoContext(ctx, "Report run completed",
			log.FieldRunID, completed.RunID,
			log.FieldNetIncome, completed.NetIncome,
			log.FieldIssues, completed.IssueCount,
			log.FieldDuration, w.now().Sub(start).Milliseconds())
	}

	if w.publisher != nil {
		if err := w.publisher.PublishReportCompleted(ctx, completed); err != nil {
			logger.ErrorContext(ctx, "Failed to publish completion", log.FieldError, err)
			if runErr == nil {
				return fmt.Errorf("publish completion: %w", err)
			}
		}
	}

	if runErr != nil {
		return fmt.Errorf("run report: %w", runErr)
	}
	return nil
}
