// Package render formats reports as markdown and, for terminals, as styled
// text.
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"ledgerbook/internal/report"
	"ledgerbook/internal/storage"
)

//go:embed templates/*.md
var templates embed.FS

// Options selects the sections of a report.
type Options struct {
	ProfitLoss    bool
	BalanceSheet  bool
	Vendors       bool
	Customers     bool
	SubCategories bool
	Diagnostics   bool
	Top           int // leaderboard length, 0 for all
}

// All is every section.
var All = Options{ProfitLoss: true, BalanceSheet: true, Vendors: true, Customers: true, SubCategories: true, Diagnostics: true}

// Any reports whether at least one statement is selected.
func (o Options) Any() bool {
	return o.ProfitLoss || o.BalanceSheet || o.Vendors || o.Customers || o.SubCategories
}

// Renderer renders reports with amounts formatted in one currency.
type Renderer struct {
	currency *money.Currency
	tmpl     *template.Template
}

// New returns a renderer for the ISO 4217 currency code.
func New(currency string) (*Renderer, error) {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", currency)
	}
	r := &Renderer{currency: cur}
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"money":     r.Money,
		"moneyText": r.moneyText,
		"cell":      cell,
		"join":      func(cells []string) string { return strings.TrimRight(strings.Join(cells, "\t"), "\t") },
	}).ParseFS(templates, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Money formats d in the renderer's currency, e.g. "-$1,000.00".
func (r *Renderer) Money(d decimal.Decimal) string {
	units := d.Shift(int32(r.currency.Fraction)).Round(0).IntPart()
	return money.New(units, r.currency.Code).Display()
}

// Report renders the selected sections of rep. When opts selects no
// statement, every statement is rendered.
func (r *Renderer) Report(rep *report.Report, opts Options) (string, error) {
	if !opts.Any() {
		top, diag := opts.Top, opts.Diagnostics
		opts = All
		opts.Top, opts.Diagnostics = top, diag
	}

	sections := []string{}
	add := func(file string, data any) error {
		s, err := r.execute(file, data)
		if err != nil {
			return err
		}
		sections = append(sections, strings.TrimSpace(s))
		return nil
	}

	type board struct {
		Title, Column string
		Lines         []report.Line
	}
	steps := []struct {
		on   bool
		file string
		data any
	}{
		{true, "title.md", rep},
		{opts.ProfitLoss, "profit_loss.md", rep},
		{opts.SubCategories, "sub_categories.md", rep},
		{opts.BalanceSheet, "balance_sheet.md", rep},
		{opts.Vendors, "leaderboard.md", board{"Vendors", "Vendor", report.Top(rep.Vendors, opts.Top)}},
		{opts.Customers, "leaderboard.md", board{"Customers", "Customer", report.Top(rep.Customers, opts.Top)}},
		{len(rep.Unreported) > 0, "unreported.md", rep},
		{opts.Diagnostics, "diagnostics.md", rep},
	}
	for _, s := range steps {
		if !s.on {
			continue
		}
		if err := add(s.file, s.data); err != nil {
			return "", err
		}
	}
	return strings.Join(sections, "\n\n") + "\n", nil
}

// Detail renders a category detail listing.
func (r *Renderer) Detail(d report.CategoryDetail) (string, error) {
	return r.execute("detail.md", d)
}

// Integrity renders the integrity report.
func (r *Renderer) Integrity(ir report.IntegrityReport) (string, error) {
	return r.execute("integrity.md", ir)
}

// Runs renders the archived run history.
func (r *Renderer) Runs(runs []storage.RunSummary) (string, error) {
	return r.execute("runs.md", runs)
}

// Run renders one archived run with its summary table.
func (r *Renderer) Run(run storage.Run) (string, error) {
	return r.execute("run.md", run)
}

// moneyText formats an archived decimal string, leaving unparseable text as is.
func (r *Renderer) moneyText(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return r.Money(d)
}

func (r *Renderer) execute(file string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, file, data); err != nil {
		return "", fmt.Errorf("execute template %q: %w", file, err)
	}
	return b.String(), nil
}

// Terminal styles markdown for a terminal. With plain set the markdown is
// returned unchanged.
func Terminal(markdown string, plain bool) (string, error) {
	if plain {
		return markdown, nil
	}
	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	return tr.Render(markdown)
}

// cell escapes text placed in a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
