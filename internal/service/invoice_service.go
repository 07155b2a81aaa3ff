package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/currency"
	"github.com/mmynk/invoicer/internal/invoice"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/render"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/pkg/api"
	"github.com/mmynk/invoicer/pkg/api/apiconnect"
)

// InvoiceService implements the Connect InvoiceService.
type InvoiceService struct {
	apiconnect.UnimplementedInvoiceServiceHandler
	store      storage.Store
	numberer   invoice.Numberer
	currencies *currency.Registry
	defaults   invoice.Defaults
	metrics    *metrics.Metrics
	clock      func() time.Time
}

// InvoiceServiceOption configures an InvoiceService.
type InvoiceServiceOption func(*InvoiceService)

// WithServiceClock overrides the time source for issue dates and timestamps.
func WithServiceClock(clock func() time.Time) InvoiceServiceOption {
	return func(s *InvoiceService) { s.clock = clock }
}

// WithMetrics records business counters on m.
func WithMetrics(m *metrics.Metrics) InvoiceServiceOption {
	return func(s *InvoiceService) { s.metrics = m }
}

// NewInvoiceService creates an InvoiceService on top of store.
func NewInvoiceService(store storage.Store, numberer invoice.Numberer, currencies *currency.Registry, defaults invoice.Defaults, opts ...InvoiceServiceOption) *InvoiceService {
	s := &InvoiceService{
		store:      store,
		numberer:   numberer,
		currencies: currencies,
		defaults:   defaults,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InvoiceService) newSession() *invoice.Session {
	return invoice.NewSession(s.store, s.numberer, s.defaults, invoice.WithClock(s.clock))
}

// CalculateTotals previews line amounts and totals without saving anything.
func (s *InvoiceService) CalculateTotals(ctx context.Context, req *connect.Request[api.CalculateTotalsRequest]) (*connect.Response[api.CalculateTotalsResponse], error) {
	session := s.newSession()
	if err := session.ReplaceItems(toModelItems(req.Msg.Items)); err != nil {
		return nil, toConnectError(err)
	}
	if err := applyAdjustments(session, req.Msg.Adjustments); err != nil {
		return nil, toConnectError(err)
	}

	inv := session.Invoice()
	slog.Debug("Calculated totals",
		"items", len(inv.Items),
		"subtotal", inv.Totals.Subtotal,
		"total", inv.Totals.Total,
	)
	return connect.NewResponse(&api.CalculateTotalsResponse{
		Items:  toAPIItems(inv.Items),
		Totals: toAPITotals(inv.Totals),
	}), nil
}

// CreateInvoice saves a new invoice and assigns its number.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error) {
	session := s.newSession()
	session.SetCreatedBy(middleware.GetUserID(ctx))
	if err := applyInput(session, req.Msg.Invoice, true); err != nil {
		return nil, toConnectError(err)
	}

	inv, err := session.Commit(ctx)
	if err != nil {
		slog.Error("CreateInvoice failed", "client", req.Msg.Invoice.ClientName, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.InvoiceSaved("create")
	slog.Info("Invoice created",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"items", len(inv.Items),
		"total", inv.Totals.Total,
		"created_by", inv.CreatedBy,
	)
	return connect.NewResponse(&api.CreateInvoiceResponse{Invoice: toAPIInvoice(inv)}), nil
}

// GetInvoice returns one invoice.
func (s *InvoiceService) GetInvoice(ctx context.Context, req *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	inv, err := s.store.GetInvoice(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetInvoiceResponse{Invoice: toAPIInvoice(inv)}), nil
}

// ListInvoices returns invoices newest first, filtered by status and search text.
func (s *InvoiceService) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	filter, err := parseFilter(req.Msg.Status, req.Msg.Search)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	invoices, err := s.store.ListInvoices(ctx, filter)
	if err != nil {
		slog.Error("ListInvoices failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Invoice, len(invoices))
	for i, inv := range invoices {
		out[i] = toAPIInvoice(inv)
	}
	return connect.NewResponse(&api.ListInvoicesResponse{Invoices: out}), nil
}

// UpdateInvoice replaces the editable fields of an existing invoice.
// The number, author and creation time are kept.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, req *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error) {
	session, err := s.editSession(ctx, req.Msg.ID)
	if err != nil {
		return nil, err
	}
	if err := applyInput(session, req.Msg.Invoice, false); err != nil {
		return nil, toConnectError(err)
	}

	inv, err := session.Commit(ctx)
	if err != nil {
		slog.Error("UpdateInvoice failed", "invoice_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.InvoiceSaved("update")
	slog.Info("Invoice updated", "invoice_id", inv.ID, "number", inv.Number, "total", inv.Totals.Total)
	return connect.NewResponse(&api.UpdateInvoiceResponse{Invoice: toAPIInvoice(inv)}), nil
}

// SetInvoiceStatus moves an invoice to any of the known statuses.
func (s *InvoiceService) SetInvoiceStatus(ctx context.Context, req *connect.Request[api.SetInvoiceStatusRequest]) (*connect.Response[api.SetInvoiceStatusResponse], error) {
	session, err := s.editSession(ctx, req.Msg.ID)
	if err != nil {
		return nil, err
	}
	previous := session.Invoice().Status
	if err := session.SetStatus(models.Status(strings.ToLower(strings.TrimSpace(req.Msg.Status)))); err != nil {
		return nil, toConnectError(err)
	}

	inv, err := session.Commit(ctx)
	if err != nil {
		slog.Error("SetInvoiceStatus failed", "invoice_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.InvoiceSaved("status")
	slog.Info("Invoice status changed", "invoice_id", inv.ID, "from", previous, "to", inv.Status)
	return connect.NewResponse(&api.SetInvoiceStatusResponse{Invoice: toAPIInvoice(inv)}), nil
}

// DeleteInvoice removes an invoice.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	if err := requireID(req.Msg.ID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteInvoice(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	s.metrics.InvoiceSaved("delete")
	slog.Info("Invoice deleted", "invoice_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteInvoiceResponse{}), nil
}

// RenderInvoice produces the printable document of a stored invoice or of an
// unsaved draft.
func (s *InvoiceService) RenderInvoice(ctx context.Context, req *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error) {
	format, err := render.ParseFormat(req.Msg.Format)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var inv *models.Invoice
	switch {
	case req.Msg.ID != "":
		if inv, err = s.store.GetInvoice(ctx, req.Msg.ID); err != nil {
			return nil, toConnectError(err)
		}
	case req.Msg.Draft != nil:
		session := s.newSession()
		if err := applyInput(session, *req.Msg.Draft, true); err != nil {
			return nil, toConnectError(err)
		}
		inv = session.Invoice()
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("id or draft is required"))
	}

	org, err := loadOrganization(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}

	artifact, err := render.Render(inv, org, org.Logo, s.currencies, format)
	if err != nil {
		slog.Error("RenderInvoice failed", "invoice_id", inv.ID, "format", format, "error", err)
		return nil, toConnectError(err)
	}
	if artifact.LogoFallback {
		s.metrics.LogoFallback()
		slog.Warn("Logo could not be decoded, drew placeholder", "invoice_id", inv.ID, "error", artifact.LogoError)
	}
	s.metrics.DocumentRendered(string(format))
	slog.Info("Invoice rendered", "invoice_id", inv.ID, "format", format, "bytes", len(artifact.Body))

	return connect.NewResponse(&api.RenderInvoiceResponse{
		ContentType:  artifact.ContentType,
		Filename:     documentFilename(inv, format),
		Body:         artifact.Body,
		LogoFallback: artifact.LogoFallback,
	}), nil
}

// GetSummary returns the portfolio figures across every invoice.
func (s *InvoiceService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	invoices, err := s.store.ListInvoices(ctx, storage.InvoiceFilter{})
	if err != nil {
		slog.Error("GetSummary failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPISummary(calculator.SummarizeInvoices(invoices))), nil
}

func (s *InvoiceService) editSession(ctx context.Context, id string) (*invoice.Session, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	existing, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	session, err := invoice.EditSession(s.store, existing, invoice.WithClock(s.clock))
	if err != nil {
		return nil, toConnectError(err)
	}
	return session, nil
}

// applyInput copies the request fields into the session. For new invoices,
// empty fields keep the session defaults.
func applyInput(session *invoice.Session, in api.InvoiceInput, isNew bool) error {
	current := session.Invoice()

	session.SetParties(invoice.Parties{
		ClientName:    strings.TrimSpace(in.ClientName),
		ClientEmail:   in.ClientEmail,
		ClientAddress: in.ClientAddress,
		ShipToAddress: in.ShipToAddress,
	})

	issue := in.IssueDate
	if issue == "" && isNew {
		issue = current.IssueDate
	}
	if err := session.SetDates(issue, in.DueDate); err != nil {
		return err
	}

	if in.Status != "" {
		if err := session.SetStatus(models.Status(strings.ToLower(in.Status))); err != nil {
			return err
		}
	}
	if in.Currency != "" {
		if err := session.SetCurrency(in.Currency); err != nil {
			return err
		}
	}
	if in.Headers != nil {
		session.SetHeaders(toModelHeaders(*in.Headers))
	}
	if in.Items != nil {
		if err := session.ReplaceItems(toModelItems(in.Items)); err != nil {
			return err
		}
	}
	if in.Adjustments != nil {
		if err := applyAdjustments(session, *in.Adjustments); err != nil {
			return err
		}
	}

	if in.PaymentTerms != "" || !isNew {
		session.SetPaymentTerms(in.PaymentTerms)
	}
	if in.Terms != "" || !isNew {
		session.SetTerms(in.Terms)
	}
	session.SetPONumber(in.PONumber)
	session.SetNotes(in.Notes)
	return nil
}

func applyAdjustments(session *invoice.Session, adj api.Adjustments) error {
	if err := session.SetDiscount(adj.Discount); err != nil {
		return err
	}
	if err := session.SetShipping(adj.Shipping); err != nil {
		return err
	}
	if err := session.SetTaxRate(adj.TaxRate); err != nil {
		return err
	}
	return session.SetAmountPaid(adj.AmountPaid)
}

func parseFilter(status, search string) (storage.InvoiceFilter, error) {
	filter := storage.InvoiceFilter{Search: strings.TrimSpace(search)}
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return filter, nil
	}
	st, err := models.ParseStatus(status)
	if err != nil {
		return storage.InvoiceFilter{}, err
	}
	filter.Status = st
	return filter, nil
}

func documentFilename(inv *models.Invoice, format render.Format) string {
	name := inv.Number
	if name == "" {
		name = "invoice-draft"
	}
	return name + "." + string(format)
}
