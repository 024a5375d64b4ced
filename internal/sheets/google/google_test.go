package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got: %v", err)
	}
}

func TestServiceAccountCredentials_File(t *testing.T) {
	path := t.TempDir() + "/sa.json"
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)

	b, err := serviceAccountCredentials()
	if err != nil || !strings.Contains(string(b), "service_account") {
		t.Fatalf("credentials = %q, %v", b, err)
	}
}

func TestClient_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.ReadWorkbook(context.Background()); err == nil {
		t.Fatal("expected error without service")
	}
	if err := c.WriteSummary(context.Background(), "Summary", nil); err == nil {
		t.Fatal("expected error without service")
	}
	if err := c.AppendRows(context.Background(), "Bank", nil, nil, false); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestAppendRowsToExistingSheet(t *testing.T) {
	var appended struct {
		Values [][]interface{} `json:"values"`
	}
	var inputOption string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`{"sheets":[{"properties":{"title":"Bank Transactions"}}]}`))
		case strings.HasSuffix(r.URL.Path, ":append"):
			inputOption = r.URL.Query().Get("valueInputOption")
			if err := json.NewDecoder(r.Body).Decode(&appended); err != nil {
				t.Errorf("decode append body: %v", err)
			}
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(), goption.WithEndpoint(srv.URL+"/"), goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	c := New(svc, "book-1")
	err = c.AppendRows(context.Background(), "bank transactions", []string{"Date"}, [][]string{{"2025-01-03", "Rent", "-1000"}}, false)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if inputOption != "RAW" {
		t.Errorf("valueInputOption = %q", inputOption)
	}
	if len(appended.Values) != 1 || appended.Values[0][1] != "Rent" || appended.Values[0][2] != -1000.0 {
		t.Fatalf("appended = %#v", appended.Values)
	}
}

func TestWorksheetConversion(t *testing.T) {
	ws := worksheet("Bank", [][]interface{}{
		{"Date", "Amount", " Category "},
		{},
		{"2025-01-05", -1000.5, nil},
	})
	if ws.Name != "Bank" || ws.Len() != 3 {
		t.Fatalf("worksheet = %+v", ws)
	}
	if got := ws.Row(1)[2]; got != "Category" {
		t.Errorf("header cell = %q", got)
	}
	if got := ws.Row(3); got[1] != "-1000.5" || got[2] != "" {
		t.Errorf("data row = %q", got)
	}
}

func TestQuoteSheet(t *testing.T) {
	tests := map[string]string{
		"Setup":                    "'Setup'",
		"Credit Card Transactions": "'Credit Card Transactions'",
		"Bob's Card":               "'Bob''s Card'",
	}
	for in, want := range tests {
		if got := quoteSheet(in); got != want {
			t.Errorf("quoteSheet(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToValues(t *testing.T) {
	v := toValues([][]string{{"a", "b"}, nil, {"Net Income", "-1000.00"}})
	if len(v) != 3 || v[0][1] != "b" || len(v[1]) != 0 {
		t.Fatalf("values = %v", v)
	}
	if got, ok := v[2][1].(float64); !ok || got != -1000 {
		t.Fatalf("amount cell = %#v, want float64", v[2][1])
	}
}

func TestIndexOf(t *testing.T) {
	if indexOf([]string{"Setup", " summary "}, "Summary") != 1 {
		t.Fatal("case-insensitive lookup failed")
	}
	if indexOf(nil, "x") != -1 {
		t.Fatal("expected -1")
	}
}
