package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/currency"
	"github.com/mmynk/invoicer/internal/invoice"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
	"github.com/mmynk/invoicer/pkg/api"
	"github.com/mmynk/invoicer/pkg/api/apiconnect"
)

var fixedNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

// testAuthInterceptor returns a Connect interceptor that sets a test user ID in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(middleware.WithUserID(ctx, "alice"), req)
		}
	}
}

type testEnv struct {
	invoices apiconnect.InvoiceServiceClient
	settings apiconnect.SettingsServiceClient
	store    *sqlite.SQLiteStore
	registry *currency.Registry
}

// setupTestServer starts both services over a temp-file SQLite database.
func setupTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "invoicer-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	registry := currency.NewRegistry()
	invoiceSvc := NewInvoiceService(
		store,
		invoice.NewSequenceNumberer(store, 4),
		registry,
		invoice.StandardDefaults(),
		WithServiceClock(func() time.Time { return fixedNow }),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	settingsSvc := NewSettingsService(store, registry)

	interceptors := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewInvoiceServiceHandler(invoiceSvc, interceptors))
	mux.Handle(apiconnect.NewSettingsServiceHandler(settingsSvc, interceptors))

	server := httptest.NewServer(mux)

	env := &testEnv{
		invoices: apiconnect.NewInvoiceServiceClient(http.DefaultClient, server.URL),
		settings: apiconnect.NewSettingsServiceClient(http.DefaultClient, server.URL),
		store:    store,
		registry: registry,
	}
	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return env, cleanup
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected code %v, got %v (%v)", code, got, err)
	}
}

func sampleInput(client string) api.InvoiceInput {
	return api.InvoiceInput{
		ClientName:    client,
		ClientAddress: "1 Main St",
		DueDate:       "2024-02-14",
		Items: []api.LineItem{
			{Description: "Consulting", Quantity: d("2"), Unit: "hrs", Rate: d("50")},
			{Description: "Hosting", Quantity: d("1"), Unit: "months", Rate: d("25.50")},
		},
		Adjustments: &api.Adjustments{
			Discount: d("10"),
			Shipping: d("5"),
			TaxRate:  d("10"),
		},
	}
}

func createInvoice(t *testing.T, env *testEnv, in api.InvoiceInput) api.Invoice {
	t.Helper()
	resp, err := env.invoices.CreateInvoice(context.Background(), connect.NewRequest(&api.CreateInvoiceRequest{Invoice: in}))
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	return resp.Msg.Invoice
}

func TestCalculateTotals(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := env.invoices.CalculateTotals(context.Background(), connect.NewRequest(&api.CalculateTotalsRequest{
		Items: []api.LineItem{
			{Description: "Consulting", Quantity: d("2"), Rate: d("50"), Amount: d("999")},
			{Description: "Hosting", Quantity: d("1"), Rate: d("25.50")},
		},
		Adjustments: api.Adjustments{Discount: d("10"), Shipping: d("5"), TaxRate: d("10"), AmountPaid: d("200")},
	}))
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}

	if !resp.Msg.Items[0].Amount.Equal(d("100")) {
		t.Errorf("stale amount not recomputed: got %s", resp.Msg.Items[0].Amount)
	}
	totals := resp.Msg.Totals
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"subtotal", totals.Subtotal, "125.50"},
		{"taxable", totals.Taxable, "120.50"},
		{"tax", totals.Tax, "12.05"},
		{"total", totals.Total, "132.55"},
		{"balance_due", totals.BalanceDue, "-67.45"},
	}
	for _, c := range checks {
		if !c.got.Equal(d(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestCalculateTotals_RejectsNegativeValues(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		req  *api.CalculateTotalsRequest
	}{
		{"negative quantity", &api.CalculateTotalsRequest{Items: []api.LineItem{{Quantity: d("-1"), Rate: d("5")}}}},
		{"negative rate", &api.CalculateTotalsRequest{Items: []api.LineItem{{Quantity: d("1"), Rate: d("-5")}}}},
		{"negative discount", &api.CalculateTotalsRequest{Adjustments: api.Adjustments{Discount: d("-1")}}},
		{"negative tax rate", &api.CalculateTotalsRequest{Adjustments: api.Adjustments{TaxRate: d("-1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.invoices.CalculateTotals(context.Background(), connect.NewRequest(tt.req))
			wantCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestCreateInvoice(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	inv := createInvoice(t, env, sampleInput("Acme Corp"))

	if inv.ID == "" {
		t.Error("expected invoice ID to be assigned")
	}
	if inv.Number != "INV-0001" {
		t.Errorf("Number = %q, want INV-0001", inv.Number)
	}
	if inv.IssueDate != "2024-01-15" {
		t.Errorf("IssueDate = %q, want today's date", inv.IssueDate)
	}
	if inv.PaymentTerms != invoice.DefaultPaymentTerms || inv.Terms != invoice.DefaultTerms {
		t.Errorf("defaults not applied: terms %q / %q", inv.PaymentTerms, inv.Terms)
	}
	if inv.Currency != "USD" || inv.Status != "draft" {
		t.Errorf("Currency/Status = %s/%s, want USD/draft", inv.Currency, inv.Status)
	}
	if inv.Headers.Item != "Item" {
		t.Errorf("Headers.Item = %q, want Item", inv.Headers.Item)
	}
	if inv.CreatedBy != "alice" {
		t.Errorf("CreatedBy = %q, want alice", inv.CreatedBy)
	}
	if inv.CreatedAt != fixedNow.Unix() {
		t.Errorf("CreatedAt = %d, want %d", inv.CreatedAt, fixedNow.Unix())
	}
	if !inv.Totals.Total.Equal(d("132.55")) {
		t.Errorf("Total = %s, want 132.55", inv.Totals.Total)
	}

	second := createInvoice(t, env, sampleInput("Globex"))
	if second.Number != "INV-0002" {
		t.Errorf("second Number = %q, want INV-0002", second.Number)
	}
}

func TestCreateInvoice_Validation(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	blankClient := sampleInput("   ")
	badDate := sampleInput("Acme")
	badDate.DueDate = "14/02/2024"
	badStatus := sampleInput("Acme")
	badStatus.Status = "archived"

	tests := []struct {
		name string
		in   api.InvoiceInput
	}{
		{"blank client name", blankClient},
		{"bad due date", badDate},
		{"unknown status", badStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.invoices.CreateInvoice(context.Background(), connect.NewRequest(&api.CreateInvoiceRequest{Invoice: tt.in}))
			wantCode(t, err, connect.CodeInvalidArgument)
		})
	}

	// Failed saves must not leave anything behind.
	list, err := env.invoices.ListInvoices(context.Background(), connect.NewRequest(&api.ListInvoicesRequest{}))
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(list.Msg.Invoices) != 0 {
		t.Errorf("expected no invoices, got %d", len(list.Msg.Invoices))
	}
}

func TestGetInvoice(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created := createInvoice(t, env, sampleInput("Acme Corp"))

	resp, err := env.invoices.GetInvoice(ctx, connect.NewRequest(&api.GetInvoiceRequest{ID: created.ID}))
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	got := resp.Msg.Invoice
	if got.Number != created.Number || got.ClientName != "Acme Corp" {
		t.Errorf("unexpected invoice: %+v", got)
	}
	if len(got.Items) != 2 || got.Items[1].Description != "Hosting" {
		t.Errorf("items not preserved in order: %+v", got.Items)
	}
	if !got.Totals.Tax.Equal(d("12.05")) {
		t.Errorf("Tax = %s, want 12.05", got.Totals.Tax)
	}

	_, err = env.invoices.GetInvoice(ctx, connect.NewRequest(&api.GetInvoiceRequest{ID: "missing"}))
	wantCode(t, err, connect.CodeNotFound)

	_, err = env.invoices.GetInvoice(ctx, connect.NewRequest(&api.GetInvoiceRequest{}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestUpdateInvoice(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created := createInvoice(t, env, sampleInput("Acme Corp"))

	in := sampleInput("Acme Corporation")
	in.IssueDate = "2024-01-20"
	in.PaymentTerms = "Net 15"
	in.Currency = "eur"
	in.Headers = &api.Headers{Item: "Service", Quantity: "Hours", Unit: "Unit", Rate: "Price", Amount: "Line Total"}
	in.Items = []api.LineItem{
		{ID: created.Items[0].ID, Description: "Consulting", Quantity: d("3"), Unit: "hrs", Rate: d("50")},
	}
	in.Adjustments = &api.Adjustments{TaxRate: d("0"), AmountPaid: d("150")}

	resp, err := env.invoices.UpdateInvoice(ctx, connect.NewRequest(&api.UpdateInvoiceRequest{ID: created.ID, Invoice: in}))
	if err != nil {
		t.Fatalf("UpdateInvoice failed: %v", err)
	}
	got := resp.Msg.Invoice

	if got.Number != created.Number || got.CreatedBy != "alice" {
		t.Errorf("identity fields changed: number %q, created_by %q", got.Number, got.CreatedBy)
	}
	if got.ClientName != "Acme Corporation" || got.PaymentTerms != "Net 15" || got.Currency != "EUR" {
		t.Errorf("fields not updated: %+v", got)
	}
	if got.Headers.Amount != "Line Total" {
		t.Errorf("Headers.Amount = %q, want Line Total", got.Headers.Amount)
	}
	if len(got.Items) != 1 || got.Items[0].ID != created.Items[0].ID {
		t.Errorf("items not replaced: %+v", got.Items)
	}
	if !got.Totals.Total.Equal(d("150")) || !got.Totals.BalanceDue.IsZero() {
		t.Errorf("Total/BalanceDue = %s/%s, want 150/0", got.Totals.Total, got.Totals.BalanceDue)
	}

	_, err = env.invoices.UpdateInvoice(ctx, connect.NewRequest(&api.UpdateInvoiceRequest{ID: "missing", Invoice: in}))
	wantCode(t, err, connect.CodeNotFound)

	in.ClientName = ""
	_, err = env.invoices.UpdateInvoice(ctx, connect.NewRequest(&api.UpdateInvoiceRequest{ID: created.ID, Invoice: in}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestSetInvoiceStatus(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created := createInvoice(t, env, sampleInput("Acme Corp"))

	// Any status may follow any other.
	for _, status := range []string{"paid", "draft", "overdue", "Sent"} {
		resp, err := env.invoices.SetInvoiceStatus(ctx, connect.NewRequest(&api.SetInvoiceStatusRequest{ID: created.ID, Status: status}))
		if err != nil {
			t.Fatalf("SetInvoiceStatus(%s) failed: %v", status, err)
		}
		if resp.Msg.Invoice.Status != strings.ToLower(status) {
			t.Errorf("Status = %q, want %q", resp.Msg.Invoice.Status, strings.ToLower(status))
		}
	}

	_, err := env.invoices.SetInvoiceStatus(ctx, connect.NewRequest(&api.SetInvoiceStatusRequest{ID: created.ID, Status: "archived"}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = env.invoices.SetInvoiceStatus(ctx, connect.NewRequest(&api.SetInvoiceStatusRequest{ID: "missing", Status: "paid"}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestListInvoices(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	acme := createInvoice(t, env, sampleInput("Acme Corp"))
	createInvoice(t, env, sampleInput("Globex"))
	if _, err := env.invoices.SetInvoiceStatus(ctx, connect.NewRequest(&api.SetInvoiceStatusRequest{ID: acme.ID, Status: "paid"})); err != nil {
		t.Fatalf("SetInvoiceStatus failed: %v", err)
	}

	tests := []struct {
		name    string
		req     api.ListInvoicesRequest
		wantLen int
	}{
		{"all", api.ListInvoicesRequest{Status: "all"}, 2},
		{"empty filter", api.ListInvoicesRequest{}, 2},
		{"paid only", api.ListInvoicesRequest{Status: "paid"}, 1},
		{"search client", api.ListInvoicesRequest{Search: "globex"}, 1},
		{"search number", api.ListInvoicesRequest{Search: "inv-0001"}, 1},
		{"no match", api.ListInvoicesRequest{Status: "overdue"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.invoices.ListInvoices(ctx, connect.NewRequest(&tt.req))
			if err != nil {
				t.Fatalf("ListInvoices failed: %v", err)
			}
			if len(resp.Msg.Invoices) != tt.wantLen {
				t.Errorf("got %d invoices, want %d", len(resp.Msg.Invoices), tt.wantLen)
			}
		})
	}

	_, err := env.invoices.ListInvoices(ctx, connect.NewRequest(&api.ListInvoicesRequest{Status: "archived"}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestDeleteInvoice(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created := createInvoice(t, env, sampleInput("Acme Corp"))

	if _, err := env.invoices.DeleteInvoice(ctx, connect.NewRequest(&api.DeleteInvoiceRequest{ID: created.ID})); err != nil {
		t.Fatalf("DeleteInvoice failed: %v", err)
	}
	_, err := env.invoices.GetInvoice(ctx, connect.NewRequest(&api.GetInvoiceRequest{ID: created.ID}))
	wantCode(t, err, connect.CodeNotFound)

	_, err = env.invoices.DeleteInvoice(ctx, connect.NewRequest(&api.DeleteInvoiceRequest{ID: created.ID}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestRenderInvoice(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created := createInvoice(t, env, sampleInput("Acme <Corp>"))

	t.Run("html by id", func(t *testing.T) {
		resp, err := env.invoices.RenderInvoice(ctx, connect.NewRequest(&api.RenderInvoiceRequest{ID: created.ID, Format: "html"}))
		if err != nil {
			t.Fatalf("RenderInvoice failed: %v", err)
		}
		if !strings.HasPrefix(resp.Msg.ContentType, "text/html") {
			t.Errorf("ContentType = %q", resp.Msg.ContentType)
		}
		if resp.Msg.Filename != "INV-0001.html" {
			t.Errorf("Filename = %q, want INV-0001.html", resp.Msg.Filename)
		}
		body := string(resp.Msg.Body)
		for _, want := range []string{"INV-0001", "Acme &lt;Corp&gt;", "$132.55", "Your Company Name"} {
			if !strings.Contains(body, want) {
				t.Errorf("html missing %q", want)
			}
		}
		if strings.Contains(body, "Acme <Corp>") {
			t.Error("client name was not escaped")
		}
	})

	t.Run("pdf by id", func(t *testing.T) {
		resp, err := env.invoices.RenderInvoice(ctx, connect.NewRequest(&api.RenderInvoiceRequest{ID: created.ID, Format: "pdf"}))
		if err != nil {
			t.Fatalf("RenderInvoice failed: %v", err)
		}
		if resp.Msg.ContentType != "application/pdf" {
			t.Errorf("ContentType = %q", resp.Msg.ContentType)
		}
		if !bytes.HasPrefix(resp.Msg.Body, []byte("%PDF")) {
			t.Error("body is not a PDF")
		}
	})

	t.Run("unsaved draft", func(t *testing.T) {
		draft := sampleInput("Draft Client")
		resp, err := env.invoices.RenderInvoice(ctx, connect.NewRequest(&api.RenderInvoiceRequest{Draft: &draft}))
		if err != nil {
			t.Fatalf("RenderInvoice failed: %v", err)
		}
		if resp.Msg.Filename != "invoice-draft.html" {
			t.Errorf("Filename = %q, want invoice-draft.html", resp.Msg.Filename)
		}
		if !strings.Contains(string(resp.Msg.Body), "Draft Client") {
			t.Error("draft body missing client name")
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, err := env.invoices.RenderInvoice(ctx, connect.NewRequest(&api.RenderInvoiceRequest{ID: created.ID, Format: "docx"}))
		wantCode(t, err, connect.CodeInvalidArgument)

		_, err = env.invoices.RenderInvoice(ctx, connect.NewRequest(&api.RenderInvoiceRequest{}))
		wantCode(t, err, connect.CodeInvalidArgument)

		_, err = env.invoices.RenderInvoice(ctx, connect.NewRequest(&api.RenderInvoiceRequest{ID: "missing"}))
		wantCode(t, err, connect.CodeNotFound)
	})
}

func TestGetSummary(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	paid := createInvoice(t, env, sampleInput("Acme Corp"))
	sent := createInvoice(t, env, sampleInput("Globex"))
	for id, status := range map[string]string{paid.ID: "paid", sent.ID: "sent"} {
		if _, err := env.invoices.SetInvoiceStatus(ctx, connect.NewRequest(&api.SetInvoiceStatusRequest{ID: id, Status: status})); err != nil {
			t.Fatalf("SetInvoiceStatus failed: %v", err)
		}
	}

	resp, err := env.invoices.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{}))
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	s := resp.Msg
	if s.InvoiceCount != 2 || s.PaidCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", s.InvoiceCount, s.PaidCount)
	}
	if !s.TotalRevenue.Equal(d("265.10")) {
		t.Errorf("TotalRevenue = %s, want 265.10", s.TotalRevenue)
	}
	if !s.Pending.Equal(d("132.55")) {
		t.Errorf("Pending = %s, want 132.55", s.Pending)
	}
	if s.ByStatus["sent"].Count != 1 {
		t.Errorf("ByStatus[sent].Count = %d, want 1", s.ByStatus["sent"].Count)
	}
}
