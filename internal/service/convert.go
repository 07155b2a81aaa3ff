package service

import (
	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/pkg/api"
)

func toAPIItems(items []models.LineItem) []api.LineItem {
	out := make([]api.LineItem, len(items))
	for i, item := range items {
		out[i] = api.LineItem{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Rate:        item.Rate,
			Amount:      item.Amount,
		}
	}
	return out
}

// toModelItems drops the client-supplied amount; the ledger recomputes it.
func toModelItems(items []api.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, item := range items {
		out[i] = models.LineItem{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Rate:        item.Rate,
		}
	}
	return out
}

func toAPITotals(t models.Totals) api.Totals {
	return api.Totals{
		Subtotal:   t.Subtotal,
		Taxable:    t.Taxable,
		Tax:        t.Tax,
		Total:      t.Total,
		BalanceDue: t.BalanceDue,
	}
}

func toAPIHeaders(h models.HeaderSchema) api.Headers {
	return api.Headers{Item: h.Item, Quantity: h.Quantity, Unit: h.Unit, Rate: h.Rate, Amount: h.Amount}
}

func toModelHeaders(h api.Headers) models.HeaderSchema {
	return models.HeaderSchema{Item: h.Item, Quantity: h.Quantity, Unit: h.Unit, Rate: h.Rate, Amount: h.Amount}
}

func toAPIAdjustments(a models.Adjustments) api.Adjustments {
	return api.Adjustments{
		Discount:   a.Discount,
		Shipping:   a.Shipping,
		TaxRate:    a.TaxRate,
		AmountPaid: a.AmountPaid,
	}
}

func toAPIInvoice(inv *models.Invoice) api.Invoice {
	return api.Invoice{
		ID:            inv.ID,
		Number:        inv.Number,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientAddress: inv.ClientAddress,
		ShipToAddress: inv.ShipToAddress,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaymentTerms:  inv.PaymentTerms,
		PONumber:      inv.PONumber,
		Status:        string(inv.Status),
		Currency:      inv.Currency,
		Headers:       toAPIHeaders(inv.Headers),
		Items:         toAPIItems(inv.Items),
		Adjustments:   toAPIAdjustments(inv.Adjustments),
		Totals:        toAPITotals(inv.Totals),
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toAPISummary(s calculator.Summary) *api.GetSummaryResponse {
	byStatus := make(map[string]api.StatusSummary, len(s.ByStatus))
	for st, sum := range s.ByStatus {
		byStatus[string(st)] = api.StatusSummary{
			Count:      sum.Count,
			Total:      sum.Total,
			BalanceDue: sum.BalanceDue,
		}
	}
	return &api.GetSummaryResponse{
		InvoiceCount: s.InvoiceCount,
		TotalRevenue: s.TotalRevenue,
		PaidCount:    s.PaidCount,
		Pending:      s.Pending,
		Overdue:      s.Overdue,
		Outstanding:  s.Outstanding,
		ByStatus:     byStatus,
	}
}

func toAPIOrganization(o models.Organization) api.Organization {
	return api.Organization{
		Name:    o.Name,
		Address: o.Address,
		Phone:   o.Phone,
		Email:   o.Email,
		Website: o.Website,
		TaxID:   o.TaxID,
		Logo:    o.Logo,
	}
}

func toModelOrganization(o api.Organization) models.Organization {
	return models.Organization{
		Name:    o.Name,
		Address: o.Address,
		Phone:   o.Phone,
		Email:   o.Email,
		Website: o.Website,
		TaxID:   o.TaxID,
		Logo:    o.Logo,
	}
}

func toAPICurrency(c models.Currency) api.Currency {
	return api.Currency{Code: c.Code, Label: c.Label, Symbol: c.Symbol}
}
