package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// HTMLContentType is the MIME type of HTML output.
const HTMLContentType = "text/html; charset=utf-8"

var htmlTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"logoSrc": func(l *Logo) template.URL {
		// The PNG was produced by DecodeLogo, so the URI is trusted.
		return template.URL(l.DataURI())
	},
}).Parse(invoiceHTML))

// HTML serializes a document to a standalone HTML page.
// All document text is escaped by html/template.
func HTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}
	return buf.Bytes(), nil
}

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
.invoice-container { max-width: 800px; margin: 0 auto; background: white; }
.header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 30px; }
.logo-section { display: flex; align-items: center; gap: 20px; }
.logo { height: 60px; width: auto; max-width: 120px; object-fit: contain; }
.logo-placeholder { height: 60px; width: 80px; border: 2px dashed #ccc; display: flex; align-items: center; justify-content: center; color: #ccc; font-size: 12px; }
.company-info h3 { margin: 0 0 8px 0; font-size: 18px; }
.company-info div { margin: 2px 0; color: #666; font-size: 14px; }
.invoice-title { text-align: right; }
.invoice-title h1 { font-size: 36px; margin: 0; font-weight: bold; }
.invoice-details { font-size: 14px; color: #666; margin-top: 10px; }
.invoice-details div { margin: 3px 0; }
.bill-ship { display: grid; grid-template-columns: 1fr 1fr; gap: 40px; margin-bottom: 30px; }
.section-title { font-weight: bold; margin-bottom: 10px; font-size: 16px; }
.client-name { font-weight: bold; margin-bottom: 5px; }
.client-address, .pre-line { color: #666; white-space: pre-line; font-size: 14px; }
.placeholder { color: #aaa; }
.items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
.items-table th { background: #333; color: white; padding: 12px; text-align: left; font-weight: bold; }
.items-table td { padding: 12px; border-bottom: 1px solid #ddd; }
.items-table tr:nth-child(even) { background: #f9f9f9; }
.items-table .text-center { text-align: center; }
.items-table .text-right { text-align: right; }
.totals { margin-left: auto; width: 300px; }
.totals-row { display: flex; justify-content: space-between; margin-bottom: 8px; padding: 4px 0; }
.total-line { border-top: 2px solid #333; padding-top: 8px; font-weight: bold; font-size: 16px; }
.balance-line { font-weight: bold; }
.discount { color: #28a745; }
.notes-terms { display: grid; grid-template-columns: 1fr 1fr; gap: 40px; margin-top: 30px; }
.notes-terms .section-title { font-size: 14px; margin-bottom: 8px; }
.notes-terms p { color: #666; font-size: 13px; line-height: 1.4; margin: 0; white-space: pre-line; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<div class="invoice-container">
<div class="header">
<div class="logo-section">
{{- if .Logo}}
<img src="{{logoSrc .Logo}}" alt="Company Logo" class="logo" width="{{.Logo.Width}}" height="{{.Logo.Height}}">
{{- else}}
<div class="logo-placeholder">LOGO</div>
{{- end}}
<div class="company-info">
<h3>{{.Organization.Name}}</h3>
<div class="pre-line">{{.Organization.Address}}</div>
<div>{{.Organization.Contact}}</div>
{{- if .Organization.Website}}
<div>{{.Organization.Website}}</div>
{{- end}}
</div>
</div>
<div class="invoice-title">
<h1>INVOICE</h1>
<div class="invoice-details">
{{- range .Meta}}
<div>{{.Label}} {{.Value}}</div>
{{- end}}
</div>
</div>
</div>
<div class="bill-ship">
<div>
<div class="section-title">{{.BillTo.Heading}}</div>
<div class="client-name">{{.BillTo.Name}}</div>
<div class="client-address">{{.BillTo.Address}}</div>
</div>
<div>
<div class="section-title">{{.ShipTo.Heading}}</div>
<div class="client-address{{if .ShipTo.Placeholder}} placeholder{{end}}">{{.ShipTo.Address}}</div>
</div>
</div>
<table class="items-table">
<thead>
<tr>
<th>{{index .Columns 0}}</th>
<th class="text-center">{{index .Columns 1}}</th>
<th class="text-center">{{index .Columns 2}}</th>
<th class="text-center">{{index .Columns 3}}</th>
<th class="text-right">{{index .Columns 4}}</th>
</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
<td>{{.Description}}</td>
<td class="text-center">{{.Quantity}}</td>
<td class="text-center">{{.Unit}}</td>
<td class="text-center">{{.Rate}}</td>
<td class="text-right">{{.Amount}}</td>
</tr>
{{- end}}
</tbody>
</table>
<div class="totals">
{{- range .Totals}}
<div class="totals-row{{if eq .Kind "discount"}} discount{{else if eq .Kind "grand"}} total-line{{else if eq .Kind "balance"}} balance-line{{end}}">
<span>{{.Label}}</span>
<span>{{.Value}}</span>
</div>
{{- end}}
</div>
<div class="notes-terms">
<div>
<div class="section-title">{{.Notes.Title}}</div>
<p>{{.Notes.Body}}</p>
</div>
<div>
<div class="section-title">{{.Terms.Title}}</div>
<p>{{.Terms.Body}}</p>
</div>
</div>
</div>
</body>
</html>
`
