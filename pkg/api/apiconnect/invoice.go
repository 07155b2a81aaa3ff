// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/pkg/api"
)

// InvoiceServiceName is the fully-qualified name of the InvoiceService.
const InvoiceServiceName = "invoicer.v1.InvoiceService"

// Procedure paths of the InvoiceService.
const (
	InvoiceServiceCalculateTotalsProcedure  = "/invoicer.v1.InvoiceService/CalculateTotals"
	InvoiceServiceCreateInvoiceProcedure    = "/invoicer.v1.InvoiceService/CreateInvoice"
	InvoiceServiceGetInvoiceProcedure       = "/invoicer.v1.InvoiceService/GetInvoice"
	InvoiceServiceListInvoicesProcedure     = "/invoicer.v1.InvoiceService/ListInvoices"
	InvoiceServiceUpdateInvoiceProcedure    = "/invoicer.v1.InvoiceService/UpdateInvoice"
	InvoiceServiceSetInvoiceStatusProcedure = "/invoicer.v1.InvoiceService/SetInvoiceStatus"
	InvoiceServiceDeleteInvoiceProcedure    = "/invoicer.v1.InvoiceService/DeleteInvoice"
	InvoiceServiceRenderInvoiceProcedure    = "/invoicer.v1.InvoiceService/RenderInvoice"
	InvoiceServiceGetSummaryProcedure       = "/invoicer.v1.InvoiceService/GetSummary"
)

// InvoiceServiceHandler is implemented by the server side of the InvoiceService.
type InvoiceServiceHandler interface {
	CalculateTotals(context.Context, *connect.Request[api.CalculateTotalsRequest]) (*connect.Response[api.CalculateTotalsResponse], error)
	CreateInvoice(context.Context, *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error)
	GetInvoice(context.Context, *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error)
	ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error)
	UpdateInvoice(context.Context, *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error)
	SetInvoiceStatus(context.Context, *connect.Request[api.SetInvoiceStatusRequest]) (*connect.Response[api.SetInvoiceStatusResponse], error)
	DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error)
	RenderInvoice(context.Context, *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewInvoiceServiceHandler builds an HTTP handler for the InvoiceService and
// returns the path prefix to mount it on.
func NewInvoiceServiceHandler(svc InvoiceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		InvoiceServiceCalculateTotalsProcedure:  connect.NewUnaryHandler(InvoiceServiceCalculateTotalsProcedure, svc.CalculateTotals, opts...),
		InvoiceServiceCreateInvoiceProcedure:    connect.NewUnaryHandler(InvoiceServiceCreateInvoiceProcedure, svc.CreateInvoice, opts...),
		InvoiceServiceGetInvoiceProcedure:       connect.NewUnaryHandler(InvoiceServiceGetInvoiceProcedure, svc.GetInvoice, opts...),
		InvoiceServiceListInvoicesProcedure:     connect.NewUnaryHandler(InvoiceServiceListInvoicesProcedure, svc.ListInvoices, opts...),
		InvoiceServiceUpdateInvoiceProcedure:    connect.NewUnaryHandler(InvoiceServiceUpdateInvoiceProcedure, svc.UpdateInvoice, opts...),
		InvoiceServiceSetInvoiceStatusProcedure: connect.NewUnaryHandler(InvoiceServiceSetInvoiceStatusProcedure, svc.SetInvoiceStatus, opts...),
		InvoiceServiceDeleteInvoiceProcedure:    connect.NewUnaryHandler(InvoiceServiceDeleteInvoiceProcedure, svc.DeleteInvoice, opts...),
		InvoiceServiceRenderInvoiceProcedure:    connect.NewUnaryHandler(InvoiceServiceRenderInvoiceProcedure, svc.RenderInvoice, opts...),
		InvoiceServiceGetSummaryProcedure:       connect.NewUnaryHandler(InvoiceServiceGetSummaryProcedure, svc.GetSummary, opts...),
	}
	return "/" + InvoiceServiceName + "/", router(routes)
}

// InvoiceServiceClient is a client for the InvoiceService.
type InvoiceServiceClient interface {
	CalculateTotals(context.Context, *connect.Request[api.CalculateTotalsRequest]) (*connect.Response[api.CalculateTotalsResponse], error)
	CreateInvoice(context.Context, *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error)
	GetInvoice(context.Context, *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error)
	ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error)
	UpdateInvoice(context.Context, *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error)
	SetInvoiceStatus(context.Context, *connect.Request[api.SetInvoiceStatusRequest]) (*connect.Response[api.SetInvoiceStatusResponse], error)
	DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error)
	RenderInvoice(context.Context, *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewInvoiceServiceClient constructs a client for the InvoiceService at baseURL
// (e.g., "http://localhost:8080").
func NewInvoiceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) InvoiceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &invoiceServiceClient{
		calculateTotals:  connect.NewClient[api.CalculateTotalsRequest, api.CalculateTotalsResponse](httpClient, baseURL+InvoiceServiceCalculateTotalsProcedure, opts...),
		createInvoice:    connect.NewClient[api.CreateInvoiceRequest, api.CreateInvoiceResponse](httpClient, baseURL+InvoiceServiceCreateInvoiceProcedure, opts...),
		getInvoice:       connect.NewClient[api.GetInvoiceRequest, api.GetInvoiceResponse](httpClient, baseURL+InvoiceServiceGetInvoiceProcedure, opts...),
		listInvoices:     connect.NewClient[api.ListInvoicesRequest, api.ListInvoicesResponse](httpClient, baseURL+InvoiceServiceListInvoicesProcedure, opts...),
		updateInvoice:    connect.NewClient[api.UpdateInvoiceRequest, api.UpdateInvoiceResponse](httpClient, baseURL+InvoiceServiceUpdateInvoiceProcedure, opts...),
		setInvoiceStatus: connect.NewClient[api.SetInvoiceStatusRequest, api.SetInvoiceStatusResponse](httpClient, baseURL+InvoiceServiceSetInvoiceStatusProcedure, opts...),
		deleteInvoice:    connect.NewClient[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse](httpClient, baseURL+InvoiceServiceDeleteInvoiceProcedure, opts...),
		renderInvoice:    connect.NewClient[api.RenderInvoiceRequest, api.RenderInvoiceResponse](httpClient, baseURL+InvoiceServiceRenderInvoiceProcedure, opts...),
		getSummary:       connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+InvoiceServiceGetSummaryProcedure, opts...),
	}
}

type invoiceServiceClient struct {
	calculateTotals  *connect.Client[api.CalculateTotalsRequest, api.CalculateTotalsResponse]
	createInvoice    *connect.Client[api.CreateInvoiceRequest, api.CreateInvoiceResponse]
	getInvoice       *connect.Client[api.GetInvoiceRequest, api.GetInvoiceResponse]
	listInvoices     *connect.Client[api.ListInvoicesRequest, api.ListInvoicesResponse]
	updateInvoice    *connect.Client[api.UpdateInvoiceRequest, api.UpdateInvoiceResponse]
	setInvoiceStatus *connect.Client[api.SetInvoiceStatusRequest, api.SetInvoiceStatusResponse]
	deleteInvoice    *connect.Client[api.DeleteInvoiceRequest, api.DeleteInvoiceResponse]
	renderInvoice    *connect.Client[api.RenderInvoiceRequest, api.RenderInvoiceResponse]
	getSummary       *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

func (c *invoiceServiceClient) CalculateTotals(ctx context.Context, req *connect.Request[api.CalculateTotalsRequest]) (*connect.Response[api.CalculateTotalsResponse], error) {
	return c.calculateTotals.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) CreateInvoice(ctx context.Context, req *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error) {
	return c.createInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) GetInvoice(ctx context.Context, req *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error) {
	return c.getInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) ListInvoices(ctx context.Context, req *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	return c.listInvoices.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) UpdateInvoice(ctx context.Context, req *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error) {
	return c.updateInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) SetInvoiceStatus(ctx context.Context, req *connect.Request[api.SetInvoiceStatusRequest]) (*connect.Response[api.SetInvoiceStatusResponse], error) {
	return c.setInvoiceStatus.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) DeleteInvoice(ctx context.Context, req *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	return c.deleteInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) RenderInvoice(ctx context.Context, req *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error) {
	return c.renderInvoice.CallUnary(ctx, req)
}

func (c *invoiceServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

// UnimplementedInvoiceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedInvoiceServiceHandler struct{}

func (UnimplementedInvoiceServiceHandler) CalculateTotals(context.Context, *connect.Request[api.CalculateTotalsRequest]) (*connect.Response[api.CalculateTotalsResponse], error) {
	return nil, unimplemented("CalculateTotals")
}

func (UnimplementedInvoiceServiceHandler) CreateInvoice(context.Context, *connect.Request[api.CreateInvoiceRequest]) (*connect.Response[api.CreateInvoiceResponse], error) {
	return nil, unimplemented("CreateInvoice")
}

func (UnimplementedInvoiceServiceHandler) GetInvoice(context.Context, *connect.Request[api.GetInvoiceRequest]) (*connect.Response[api.GetInvoiceResponse], error) {
	return nil, unimplemented("GetInvoice")
}

func (UnimplementedInvoiceServiceHandler) ListInvoices(context.Context, *connect.Request[api.ListInvoicesRequest]) (*connect.Response[api.ListInvoicesResponse], error) {
	return nil, unimplemented("ListInvoices")
}

func (UnimplementedInvoiceServiceHandler) UpdateInvoice(context.Context, *connect.Request[api.UpdateInvoiceRequest]) (*connect.Response[api.UpdateInvoiceResponse], error) {
	return nil, unimplemented("UpdateInvoice")
}

func (UnimplementedInvoiceServiceHandler) SetInvoiceStatus(context.Context, *connect.Request[api.SetInvoiceStatusRequest]) (*connect.Response[api.SetInvoiceStatusResponse], error) {
	return nil, unimplemented("SetInvoiceStatus")
}

func (UnimplementedInvoiceServiceHandler) DeleteInvoice(context.Context, *connect.Request[api.DeleteInvoiceRequest]) (*connect.Response[api.DeleteInvoiceResponse], error) {
	return nil, unimplemented("DeleteInvoice")
}

func (UnimplementedInvoiceServiceHandler) RenderInvoice(context.Context, *connect.Request[api.RenderInvoiceRequest]) (*connect.Response[api.RenderInvoiceResponse], error) {
	return nil, unimplemented("RenderInvoice")
}

func (UnimplementedInvoiceServiceHandler) GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return nil, unimplemented("GetSummary")
}

func unimplemented(method string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(method+" is not implemented"))
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
