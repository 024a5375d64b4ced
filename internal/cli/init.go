// Package cli provides common CLI initialization utilities shared by
// cmd/ledgerbook and cmd/ledgerbook-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledgerbook/internal/config"
	"ledgerbook/internal/core"
	"ledgerbook/internal/engine"
	"ledgerbook/internal/log"
	"ledgerbook/internal/services"
	"ledgerbook/internal/sheets"
	"ledgerbook/internal/sheets/excel"
	"ledgerbook/internal/sheets/google"
	"ledgerbook/internal/sheets/memory"
	"ledgerbook/internal/storage"
)

// SetupLogger initializes structured logging on stderr at the configured
// level and sets it as the default logger.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.Config{Level: cfg.SlogLevel(), Component: component, Output: os.Stderr})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, with the
// worker checks when worker is set. It exits the process on failure.
func LoadAndValidateConfig(worker bool) *config.Config {
	cfg := config.Load()
	validate := cfg.Validate
	if worker {
		validate = cfg.ValidateWorker
	}
	if err := validate(); err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// NewWorkbook returns the workbook adapter selected by cfg.Source.
func NewWorkbook(ctx context.Context, cfg *config.Config) (sheets.Workbook, error) {
	switch cfg.Source {
	case config.SourceXLSX:
		return excel.New(cfg.LedgerFile), nil
	case config.SourceCSV:
		store, err := memory.NewFromCSVDir(cfg.CSVDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.SourceSheets:
		client, err := google.Open(ctx, cfg.GoogleSpreadsheetID)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: %q", sheets.ErrNoSource, cfg.Source)
	}
}

// InitSQLite opens the run archive, or returns nil when none is configured.
func InitSQLite(logger *log.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	if dbPath == "" {
		logger.Debug("Run archive disabled - no SQLITE_DB_PATH provided")
		return nil, nil
	}
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository at %s: %w", dbPath, err)
	}
	return repo, nil
}

// NewReportService wires the workbook source, the optional summary sink and
// the optional run archive described by cfg.
func NewReportService(ctx context.Context, logger *log.Logger, cfg *config.Config) (*services.ReportService, error) {
	wb, err := NewWorkbook(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	var summary sheets.SummaryWriter
	if cfg.WriteSummary {
		summary = wb
	}

	var archive services.RunArchive
	repo, err := InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		return nil, err
	}
	if repo != nil {
		archive = repo
	}

	return services.NewReportService(wb, summary, archive, services.Options{
		Engine:       engine.Options{SetupSheet: cfg.SetupSheet, LedgerSheet: cfg.LedgerSheet},
		SummarySheet: cfg.SummarySheet,
	}), nil
}

// NewImportService wires statement imports into the configured workbook.
func NewImportService(ctx context.Context, cfg *config.Config) (*services.ImportService, error) {
	wb, err := NewWorkbook(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return services.NewImportService(wb, wb, cfg.SetupSheet), nil
}

// ReadStatement loads a statement export: a .csv file or the first sheet
// of an .xlsx workbook.
func ReadStatement(ctx context.Context, path string) (*core.Worksheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return memory.ReadCSVFile(path)
	case ".xlsx", ".xlsm":
		wb, err := excel.New(path).ReadWorkbook(ctx)
		if err != nil {
			return nil, err
		}
		if len(wb.Sheets) == 0 {
			return nil, fmt.Errorf("%s has no worksheets", path)
		}
		return wb.Sheets[0], nil
	default:
		return nil, fmt.Errorf("unsupported statement file %s: want .csv or .xlsx", filepath.Base(path))
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-finished:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
