package setup

import (
	"errors"
	"testing"

	"ledgerbook/internal/core"
)

func exampleSetup() *core.Worksheet {
	return &core.Worksheet{Name: "Setup", Rows: [][]string{
		{"Category", "Sub-Category", "Type", "Report", "", "Vendors", "Customers", "", "Sheet Name (Config)", "Account Type", "Flip Polarity? (Yes/No)", "Header Row"},
		{"Sales", "General", "Income", "P&L", "", "Amazon", "Client XYZ", "", "Bank Transactions", "Bank", "No", "1"},
		{"Rent", "Office", "Expense", "P&L", "", "Staples", "", "", "Credit Card Transactions", "CC", "Yes", ""},
		{"Checking Account", "Bank", "Asset", "Balance Sheet", "", "", "Client ABC"},
		{"AX CC", "Liability", "Liability", "Balance Sheet"},
		{"", "", "", "", "", "amazon"},
	}}
}

func TestLoadExampleTaxonomy(t *testing.T) {
	cfg, err := Load(exampleSetup())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Categories.Len() != 4 {
		t.Fatalf("categories = %d", cfg.Categories.Len())
	}
	c, ok := cfg.Categories.Lookup("checking account")
	if !ok || c.Bucket != core.BucketBalanceSheet || c.AccountType != "Asset" || c.SubCategory != "Bank" {
		t.Fatalf("unexpected checking account: %+v", c)
	}
	if names := cfg.Vendors.Names(); len(names) != 2 || names[0] != "Amazon" {
		t.Fatalf("vendors = %v", names)
	}
	if names := cfg.Customers.Names(); len(names) != 2 {
		t.Fatalf("customers = %v", names)
	}
	if len(cfg.Sheets) != 2 || cfg.Defaulted {
		t.Fatalf("sheets = %+v defaulted=%v", cfg.Sheets, cfg.Defaulted)
	}
	bank, cc := cfg.Sheets[0], cfg.Sheets[1]
	if bank.SheetName != "Bank Transactions" || bank.AccountKind != "Bank" || bank.FlipPolarity || bank.HeaderOffset != 1 {
		t.Fatalf("bank config = %+v", bank)
	}
	if cc.AccountKind != "CC" || !cc.FlipPolarity || cc.HeaderOffset != 0 {
		t.Fatalf("cc config = %+v", cc)
	}
}

func TestLoadReportTypeColumn(t *testing.T) {
	ws := &core.Worksheet{Name: "Setup", Rows: [][]string{
		{"Category", "Account Type", "Report", "Report Type"},
		{"Cat_Multi", "Expense", "", "P&L"},
	}}
	cfg, err := Load(ws)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, _ := cfg.Categories.Lookup("Cat_Multi")
	if c.Bucket != core.BucketProfitLoss || c.AccountType != "Expense" {
		t.Fatalf("unexpected category: %+v", c)
	}
}

func TestLoadDefaultsWhenNoSheets(t *testing.T) {
	ws := &core.Worksheet{Name: "Setup", Rows: [][]string{
		{"Category", "Type", "Report"},
		{"Rent", "Expense", "P&L"},
	}}
	cfg, err := Load(ws)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Defaulted || len(cfg.Warnings) != 1 {
		t.Fatalf("expected defaulted config with warning: %+v", cfg)
	}
	if cfg.Sheets[0].FlipPolarity || !cfg.Sheets[1].FlipPolarity {
		t.Fatalf("default flips wrong: %+v", cfg.Sheets)
	}
	cfg.Sheets[0].SheetName = "changed"
	if DefaultSheets[0].SheetName != "Bank Transactions" {
		t.Fatalf("defaults were aliased")
	}
}

func TestLoadDuplicateSheetWarns(t *testing.T) {
	ws := &core.Worksheet{Name: "Setup", Rows: [][]string{
		{"Category", "Sheet Name", "Sheet Type"},
		{"Rent", "Bank", "Bank"},
		{"", "bank ", "Bank"},
	}}
	cfg, _ := Load(ws)
	if len(cfg.Sheets) != 1 || len(cfg.Warnings) != 1 {
		t.Fatalf("sheets=%v warnings=%v", cfg.Sheets, cfg.Warnings)
	}
}

func TestLoadNilSheet(t *testing.T) {
	if _, err := Load(nil); !errors.Is(err, core.ErrMissingSheet) {
		t.Fatalf("expected ErrMissingSheet, got %v", err)
	}
}

func TestLinkFirstMatchWins(t *testing.T) {
	cats := core.NewCategories()
	cats.Add(core.Category{Name: "Sales", AccountType: "Income"})
	cats.Add(core.Category{Name: "Checking Account", AccountType: "Asset", SubCategory: "Bank"})
	cats.Add(core.Category{Name: "Bank", AccountType: "Asset"})
	sheets := []core.SheetConfig{
		{SheetName: "Bank Transactions", AccountKind: "bank"},
		{SheetName: "Credit Card Transactions", AccountKind: "CC"},
		{SheetName: "Misc", AccountKind: ""},
	}
	linked := Link(sheets, cats)
	if linked[0].LinkedAccount != "Checking Account" {
		t.Fatalf("bank linked to %q", linked[0].LinkedAccount)
	}
	if linked[1].Linked() || linked[2].Linked() {
		t.Fatalf("unexpected links: %+v", linked)
	}
	if sheets[0].LinkedAccount != "" {
		t.Fatalf("input mutated")
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]Kind{
		"Bank":             KindBank,
		"CC":               KindCard,
		"Amex Card":        KindCard,
		"Checking":         KindBank,
		"Credit/Debit":     KindBank,
		"Liability":        KindCard,
		"something else":   KindBank,
		"visa-business-01": KindCard,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Errorf("Classify(%q) = %s, want %s", in, got, want)
		}
	}
}
