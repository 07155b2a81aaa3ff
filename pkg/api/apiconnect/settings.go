package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/pkg/api"
)

// SettingsServiceName is the fully-qualified name of the SettingsService.
const SettingsServiceName = "invoicer.v1.SettingsService"

// Procedure paths of the SettingsService.
const (
	SettingsServiceListCurrenciesProcedure     = "/invoicer.v1.SettingsService/ListCurrencies"
	SettingsServiceAddCurrencyProcedure        = "/invoicer.v1.SettingsService/AddCurrency"
	SettingsServiceGetOrganizationProcedure    = "/invoicer.v1.SettingsService/GetOrganization"
	SettingsServiceUpdateOrganizationProcedure = "/invoicer.v1.SettingsService/UpdateOrganization"
	SettingsServiceListUnitsProcedure          = "/invoicer.v1.SettingsService/ListUnits"
)

// SettingsServiceHandler is implemented by the server side of the SettingsService.
type SettingsServiceHandler interface {
	ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error)
	AddCurrency(context.Context, *connect.Request[api.AddCurrencyRequest]) (*connect.Response[api.AddCurrencyResponse], error)
	GetOrganization(context.Context, *connect.Request[api.GetOrganizationRequest]) (*connect.Response[api.GetOrganizationResponse], error)
	UpdateOrganization(context.Context, *connect.Request[api.UpdateOrganizationRequest]) (*connect.Response[api.UpdateOrganizationResponse], error)
	ListUnits(context.Context, *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error)
}

// NewSettingsServiceHandler builds an HTTP handler for the SettingsService and
// returns the path prefix to mount it on.
func NewSettingsServiceHandler(svc SettingsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	routes := map[string]http.Handler{
		SettingsServiceListCurrenciesProcedure:     connect.NewUnaryHandler(SettingsServiceListCurrenciesProcedure, svc.ListCurrencies, opts...),
		SettingsServiceAddCurrencyProcedure:        connect.NewUnaryHandler(SettingsServiceAddCurrencyProcedure, svc.AddCurrency, opts...),
		SettingsServiceGetOrganizationProcedure:    connect.NewUnaryHandler(SettingsServiceGetOrganizationProcedure, svc.GetOrganization, opts...),
		SettingsServiceUpdateOrganizationProcedure: connect.NewUnaryHandler(SettingsServiceUpdateOrganizationProcedure, svc.UpdateOrganization, opts...),
		SettingsServiceListUnitsProcedure:          connect.NewUnaryHandler(SettingsServiceListUnitsProcedure, svc.ListUnits, opts...),
	}
	return "/" + SettingsServiceName + "/", router(routes)
}

// SettingsServiceClient is a client for the SettingsService.
type SettingsServiceClient interface {
	ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error)
	AddCurrency(context.Context, *connect.Request[api.AddCurrencyRequest]) (*connect.Response[api.AddCurrencyResponse], error)
	GetOrganization(context.Context, *connect.Request[api.GetOrganizationRequest]) (*connect.Response[api.GetOrganizationResponse], error)
	UpdateOrganization(context.Context, *connect.Request[api.UpdateOrganizationRequest]) (*connect.Response[api.UpdateOrganizationResponse], error)
	ListUnits(context.Context, *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error)
}

// NewSettingsServiceClient constructs a client for the SettingsService at baseURL.
func NewSettingsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettingsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &settingsServiceClient{
		listCurrencies:     connect.NewClient[api.ListCurrenciesRequest, api.ListCurrenciesResponse](httpClient, baseURL+SettingsServiceListCurrenciesProcedure, opts...),
		addCurrency:        connect.NewClient[api.AddCurrencyRequest, api.AddCurrencyResponse](httpClient, baseURL+SettingsServiceAddCurrencyProcedure, opts...),
		getOrganization:    connect.NewClient[api.GetOrganizationRequest, api.GetOrganizationResponse](httpClient, baseURL+SettingsServiceGetOrganizationProcedure, opts...),
		updateOrganization: connect.NewClient[api.UpdateOrganizationRequest, api.UpdateOrganizationResponse](httpClient, baseURL+SettingsServiceUpdateOrganizationProcedure, opts...),
		listUnits:          connect.NewClient[api.ListUnitsRequest, api.ListUnitsResponse](httpClient, baseURL+SettingsServiceListUnitsProcedure, opts...),
	}
}

type settingsServiceClient struct {
	listCurrencies     *connect.Client[api.ListCurrenciesRequest, api.ListCurrenciesResponse]
	addCurrency        *connect.Client[api.AddCurrencyRequest, api.AddCurrencyResponse]
	getOrganization    *connect.Client[api.GetOrganizationRequest, api.GetOrganizationResponse]
	updateOrganization *connect.Client[api.UpdateOrganizationRequest, api.UpdateOrganizationResponse]
	listUnits          *connect.Client[api.ListUnitsRequest, api.ListUnitsResponse]
}

func (c *settingsServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}

func (c *settingsServiceClient) AddCurrency(ctx context.Context, req *connect.Request[api.AddCurrencyRequest]) (*connect.Response[api.AddCurrencyResponse], error) {
	return c.addCurrency.CallUnary(ctx, req)
}

func (c *settingsServiceClient) GetOrganization(ctx context.Context, req *connect.Request[api.GetOrganizationRequest]) (*connect.Response[api.GetOrganizationResponse], error) {
	return c.getOrganization.CallUnary(ctx, req)
}

func (c *settingsServiceClient) UpdateOrganization(ctx context.Context, req *connect.Request[api.UpdateOrganizationRequest]) (*connect.Response[api.UpdateOrganizationResponse], error) {
	return c.updateOrganization.CallUnary(ctx, req)
}

func (c *settingsServiceClient) ListUnits(ctx context.Context, req *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error) {
	return c.listUnits.CallUnary(ctx, req)
}

// UnimplementedSettingsServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettingsServiceHandler struct{}

func (UnimplementedSettingsServiceHandler) ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	return nil, unimplemented("ListCurrencies")
}

func (UnimplementedSettingsServiceHandler) AddCurrency(context.Context, *connect.Request[api.AddCurrencyRequest]) (*connect.Response[api.AddCurrencyResponse], error) {
	return nil, unimplemented("AddCurrency")
}

func (UnimplementedSettingsServiceHandler) GetOrganization(context.Context, *connect.Request[api.GetOrganizationRequest]) (*connect.Response[api.GetOrganizationResponse], error) {
	return nil, unimplemented("GetOrganization")
}

func (UnimplementedSettingsServiceHandler) UpdateOrganization(context.Context, *connect.Request[api.UpdateOrganizationRequest]) (*connect.Response[api.UpdateOrganizationResponse], error) {
	return nil, unimplemented("UpdateOrganization")
}

func (UnimplementedSettingsServiceHandler) ListUnits(context.Context, *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error) {
	return nil, unimplemented("ListUnits")
}
