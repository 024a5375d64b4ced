package main

import (
	"context"
	"fmt"
	"os"

	"ledgerbook/internal/cli"
	"ledgerbook/internal/config"
	"ledgerbook/internal/log"
	"ledgerbook/internal/render"
	"ledgerbook/internal/services"
)

// As a short lived CLI every command builds its own app from the environment.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	renderer *render.Renderer
}

func newApp() (*app, error) {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(false)
	logger := cli.SetupLogger(cfg, log.ComponentCLI)
	r, err := render.New(cfg.Currency)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, renderer: r}, nil
}

// run executes one report run. A non-nil outcome may come with a sink error;
// it is reported and the outcome is still returned.
func (a *app) run(ctx context.Context, printOnly bool) (*services.Outcome, error) {
	svc, err := cli.NewReportService(ctx, a.logger, a.cfg)
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	out, err := svc.Run(ctx, printOnly)
	if out == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	for _, n := range out.Result.State.Notes() {
		a.logger.DebugContext(ctx, n.Message, log.NewFields().WithRow(n.Sheet, n.Row).WithOperation(log.OpAggregate).ToSlice()...)
	}
	if issues := out.IssueCount(); issues > 0 {
		fmt.Fprintf(os.Stderr, "%d integrity issue(s) found, run `ledgerbook integrity` for details\n", issues)
	}
	return out, nil
}

// printMarkdown writes md to stdout, styled unless plain is set.
func printMarkdown(md string, plain bool) error {
	out, err := render.Terminal(md, plain)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}
