package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldRunID       = "run_id"
	FieldSource      = "source"
	FieldSheet       = "sheet"
	FieldRow         = "row"
	FieldCategory    = "category"
	FieldSubCategory = "sub_category"
	FieldAmount      = "amount"
	FieldNetIncome   = "net_income"
	FieldIssues      = "issues"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentEngine  = "engine"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpRead      = "read"
	OpAggregate = "aggregate"
	OpReport    = "report"
	OpDetail    = "detail"
	OpIntegrity = "integrity"
	OpArchive   = "archive"
	OpList      = "list"
	OpImport    = "import"
	OpRender    = "render"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRow adds the sheet and 1-based row a message refers to
func (f LogFields) WithRow(sheet string, row int) LogFields {
	f[FieldSheet] = sheet
	if row > 0 {
		f[FieldRow] = row
	}
	return f
}

// WithAmount adds a category amount
func (f LogFields) WithAmount(category string, amount decimal.Decimal) LogFields {
	f[FieldCategory] = category
	f[FieldAmount] = amount.StringFixed(2)
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
