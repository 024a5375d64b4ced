// Package importer turns bank and card statement exports into rows of the
// workbook's transaction sheets.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core"
	"ledgerbook/internal/headers"
	"ledgerbook/internal/setup"
)

// ErrNoHeader is returned for a bank statement without a recognizable header.
var ErrNoHeader = errors.New("no transaction header found in statement")

// Statement column roles beyond the transaction ones.
const (
	Member  headers.Role = "member"
	Details headers.Role = "details"
	Receipt headers.Role = "receipt"
	Account headers.Role = "account"
)

// statementRoles maps export and template headers. Details claims "memo"
// before description does.
var statementRoles = []headers.Synonyms{
	{Role: Details, Contains: []string{"extended details", "memo"}},
	{Role: Account, Contains: []string{"account"}, Exact: []string{"acct"}},
	{Role: Member, Contains: []string{"member"}},
	{Role: Receipt, Contains: []string{"receipt"}},
	{Role: headers.Date, Contains: []string{"date"}},
	{Role: headers.Debit, Contains: []string{"debit", "withdrawal"}},
	{Role: headers.Credit, Contains: []string{"credit", "deposit"}},
	{Role: headers.Description, Contains: []string{"description", "narrative", "payee"}, Exact: []string{"desc", "name", "details"}},
	{Role: headers.Amount, Contains: []string{"amount"}, Exact: []string{"amt"}},
}

// cardExportLayout is the card issuer export that carries its header block
// in the first six rows.
var (
	cardExportHeaderRow = 7
	cardExportLayout    = headers.ColumnMap{
		headers.Date: {0}, Receipt: {1}, headers.Description: {2},
		Member: {3}, Account: {4}, headers.Amount: {5}, Details: {6},
	}
)

// Template columns of newly created transaction sheets.
var (
	BankTemplate = []string{
		"Date", "Description", "Amount", "Category", "Sub-Category",
		"Extended Details", "Vendor", "Customer", "Report Type (Auto)",
	}
	CardTemplate = []string{
		"Date", "Member", "Description", "Amount", "Category", "Sub-Category",
		"Extended Details", "Vendor", "Customer", "Account Number", "Receipt", "Report Type (Auto)",
	}
)

// Template returns the header of a new sheet of kind.
func Template(kind setup.Kind) []string {
	if kind == setup.KindCard {
		return CardTemplate
	}
	return BankTemplate
}

// Transaction is one statement line.
type Transaction struct {
	Date        string // YYYY-MM-DD
	Description string
	Amount      decimal.Decimal
	Member      string
	Details     string
	Receipt     string
	Account     string
}

// Statement is a parsed export.
type Statement struct {
	Account      string // account number found in the file name or top rows
	HeaderRow    int    // 1-based
	Transactions []Transaction
	Skipped      int // non-blank rows dropped as junk or totals
}

var (
	fileAccount  = regexp.MustCompile(`[-_ ](\d{4,})\.`)
	accountLabel = regexp.MustCompile(`(?i)account\s*(?:number|#)`)
	accountValue = regexp.MustCompile(`(?i)(?:number|#)[:\s]*(\d[\d-]*)`)
	accountCell  = regexp.MustCompile(`^\d[\d-]*$`)
)

// accountScanRows is how many leading rows may carry an account label.
const accountScanRows = 10

// Parse reads a statement worksheet. filename is only used to find the
// account number. A card export without a header falls back to the issuer
// layout; a bank export without one fails with ErrNoHeader.
func Parse(ws *core.Worksheet, filename string, kind setup.Kind) (*Statement, error) {
	st := &Statement{Account: accountFromFilename(filename)}
	if st.Account == "" {
		st.Account = accountFromRows(ws)
	}

	cols, header := findHeader(ws)
	switch {
	case header > 0:
		st.HeaderRow = header
	case kind == setup.KindCard:
		st.HeaderRow, cols = cardExportHeaderRow, cardExportLayout
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(filename), ErrNoHeader)
	}

	for r := st.HeaderRow + 1; r <= ws.Len(); r++ {
		row := ws.Row(r)
		if core.IsBlankRow(row) {
			continue
		}
		tx, ok := transaction(cols, row)
		if !ok {
			st.Skipped++
			continue
		}
		if tx.Account == "" {
			tx.Account = st.Account
		}
		st.Transactions = append(st.Transactions, tx)
	}
	return st, nil
}

func accountFromFilename(name string) string {
	if m := fileAccount.FindStringSubmatch(filepath.Base(name)); m != nil {
		return m[1]
	}
	return ""
}

func accountFromRows(ws *core.Worksheet) string {
	for r := 1; r <= accountScanRows && r <= ws.Len(); r++ {
		row := ws.Row(r)
		for i, cell := range row {
			if !accountLabel.MatchString(cell) {
				continue
			}
			if m := accountValue.FindStringSubmatch(cell); m != nil {
				return m[1]
			}
			if next := core.Cell(row, i+1); accountCell.MatchString(next) {
				return next
			}
		}
	}
	return ""
}

// findHeader returns the first row mapping a date together with an amount,
// a debit or credit, or a description. Below row 1 a third role is needed so
// preamble lines such as "Statement Date | Amount Due" are passed over.
func findHeader(ws *core.Worksheet) (headers.ColumnMap, int) {
	for r := 1; r <= ws.Len(); r++ {
		m := headers.Map(statementRoles, ws.Row(r))
		if !m.Has(headers.Date) || !hasMoney(m) && !m.Has(headers.Description) {
			continue
		}
		if r == 1 || len(m) >= 3 {
			return m, r
		}
	}
	return nil, 0
}

func hasMoney(m headers.ColumnMap) bool {
	return m.Has(headers.Amount) || m.Has(headers.Debit) || m.Has(headers.Credit)
}

// transaction reads one row. Rows without a readable date, rows with neither
// description nor amount, and total or balance lines are junk.
func transaction(cols headers.ColumnMap, row []string) (Transaction, bool) {
	date, ok := core.ParseDate(cols.Get(row, headers.Date))
	if !ok {
		return Transaction{}, false
	}
	tx := Transaction{
		Date:        date.Format("2006-01-02"),
		Description: cols.Get(row, headers.Description),
		Amount:      amount(cols, row),
		Member:      cols.Get(row, Member),
		Details:     cols.Get(row, Details),
		Receipt:     cols.Get(row, Receipt),
		Account:     cols.Get(row, Account),
	}
	if tx.Description == "" && tx.Amount.IsZero() {
		return Transaction{}, false
	}
	if core.IsSummaryText(tx.Description) {
		return Transaction{}, false
	}
	return tx, true
}

// amount prefers a signed amount column. Split exports count credits as
// inflows and debits as outflows whatever sign they are written with.
func amount(cols headers.ColumnMap, row []string) decimal.Decimal {
	if cols.Has(headers.Amount) {
		return core.ParseAmount(cols.Get(row, headers.Amount))
	}
	credit := core.ParseAmount(cols.Get(row, headers.Credit)).Abs()
	debit := core.ParseAmount(cols.Get(row, headers.Debit)).Abs()
	return credit.Sub(debit)
}

// Rows lays the transactions out under header. A header without a date and
// an amount column is replaced by the template of kind. Columns the header
// does not name stay empty, so category and the allow-list columns are left
// for the bookkeeper.
func (s *Statement) Rows(header []string, kind setup.Kind) [][]string {
	cols := headers.Map(statementRoles, header)
	width := len(header)
	if !cols.Has(headers.Date) || !hasMoney(cols) {
		tpl := Template(kind)
		cols, width = headers.Map(statementRoles, tpl), len(tpl)
	}

	out := make([][]string, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		row := make([]string, width)
		set := func(r headers.Role, v string) {
			if c := cols.Column(r); c >= 0 {
				row[c] = v
			}
		}
		set(headers.Date, tx.Date)
		set(headers.Description, tx.Description)
		set(Member, tx.Member)
		set(Details, tx.Details)
		set(Receipt, tx.Receipt)
		set(Account, tx.Account)
		switch {
		case cols.Has(headers.Amount):
			set(headers.Amount, tx.Amount.String())
		case tx.Amount.IsNegative():
			set(headers.Debit, tx.Amount.Abs().String())
		case tx.Amount.IsPositive():
			set(headers.Credit, tx.Amount.String())
		}
		out = append(out, trimRight(row))
	}
	return out
}

func trimRight(row []string) []string {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return row[:n]
}

// Target returns the sheet imports of kind go to: the last configured sheet
// classified as kind, else the default sheet for kind.
func Target(sheets []core.SheetConfig, kind setup.Kind) core.SheetConfig {
	var target core.SheetConfig
	found := false
	for _, sc := range sheets {
		if setup.Classify(sc.AccountKind) == kind {
			target, found = sc, true
		}
	}
	if found {
		return target
	}
	for _, sc := range setup.DefaultSheets {
		if setup.Classify(sc.AccountKind) == kind {
			return sc
		}
	}
	return core.SheetConfig{SheetName: "Bank Transactions", AccountKind: "Bank"}
}

// ParseKind reads a command-line account family.
func ParseKind(s string) (setup.Kind, bool) {
	switch core.Key(s) {
	case "bank":
		return setup.KindBank, true
	case "cc", "card", "credit card":
		return setup.KindCard, true
	default:
		return "", false
	}
}
