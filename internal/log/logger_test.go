package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentEngine, JSON: true, Output: &buf})

	logger.Info("aggregated", FieldSheet, "Bank Transactions")
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec[FieldComponent] != ComponentEngine || rec[FieldSheet] != "Bank Transactions" {
		t.Errorf("record = %v", rec)
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()).Component(); got != "" {
		t.Errorf("component = %q", got)
	}

	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentWorker, Output: &buf})
	ctx := WithRun(WithContext(context.Background(), logger), "run-1", "req-9")

	FromContext(ctx).InfoContext(ctx, "done")
	out := buf.String()
	for _, want := range []string{"component=worker", "run_id=run-1", "request_id=req-9"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithRow("Ledger", 4).
		WithAmount("Rent", decimal.RequireFromString("-1000")).
		WithOperation(OpAggregate)
	if f[FieldRow] != 4 || f[FieldAmount] != "-1000.00" || f[FieldOperation] != OpAggregate {
		t.Errorf("fields = %v", f)
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("slice length = %d", len(f.ToSlice()))
	}
	if _, ok := NewFields().WithRow("Ledger", 0)[FieldRow]; ok {
		t.Error("row 0 should be omitted")
	}
}

func TestWithComponentReplacesTag(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: ComponentCLI, JSON: true, Output: &buf}).With(FieldRunID, "r1")

	logger.WithComponent(ComponentStorage).Info("saved")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec[FieldComponent] != ComponentStorage || rec[FieldRunID] != "r1" {
		t.Errorf("record = %v", rec)
	}
	if strings.Count(buf.String(), `"component"`) != 1 {
		t.Errorf("component tagged more than once: %s", buf.String())
	}
}
