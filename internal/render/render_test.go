package render

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/currency"
	"github.com/mmynk/invoicer/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		ID:            "1",
		Number:        "INV-001",
		ClientName:    "Acme Corp",
		ClientEmail:   "billing@acme.com",
		ClientAddress: "123 Business St, Suite 100\nNew York, NY 10001",
		IssueDate:     "2024-01-15",
		DueDate:       "2024-02-15",
		PaymentTerms:  "Net 30",
		PONumber:      "PO-12345",
		Status:        models.StatusSent,
		Items: []models.LineItem{
			{ID: "1", Description: "Web Development", Quantity: d("40"), Unit: "hrs", Rate: d("150"), Amount: d("6000")},
			{ID: "2", Description: "UI/UX Design", Quantity: d("20"), Unit: "hrs", Rate: d("120"), Amount: d("2400")},
		},
		Headers:     models.DefaultHeaderSchema(),
		Currency:    "USD",
		Adjustments: models.Adjustments{TaxRate: d("10")},
		Notes:       "Thank you for your business!",
		Terms:       "Payment is due within 30 days of invoice date. Late fees may apply.",
	}
}

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func totalLabels(doc Document) []string {
	var labels []string
	for _, l := range doc.Totals {
		labels = append(labels, l.Label)
	}
	return labels
}

func TestBuild_Layout(t *testing.T) {
	doc := Build(sampleInvoice(), models.DefaultOrganization(), nil, currency.NewRegistry())

	if doc.Logo != nil {
		t.Error("expected placeholder when no logo is given")
	}
	if doc.Organization.Contact != "(555) 123-4567 | info@yourcompany.com" {
		t.Errorf("Contact = %q", doc.Organization.Contact)
	}

	wantMeta := []MetaLine{
		{"#", "INV-001"},
		{"Date:", "2024-01-15"},
		{"Payment Terms:", "Net 30"},
		{"Due Date:", "2024-02-15"},
		{"P.O. Number:", "PO-12345"},
	}
	if len(doc.Meta) != len(wantMeta) {
		t.Fatalf("Meta = %+v", doc.Meta)
	}
	for i := range wantMeta {
		if doc.Meta[i] != wantMeta[i] {
			t.Errorf("Meta[%d] = %+v, want %+v", i, doc.Meta[i], wantMeta[i])
		}
	}

	if !doc.ShipTo.Placeholder || doc.ShipTo.Address != ShipToPlaceholder {
		t.Errorf("ShipTo = %+v, want placeholder", doc.ShipTo)
	}

	if doc.Rows[0].Rate != "$150.00" || doc.Rows[0].Amount != "$6000.00" || doc.Rows[0].Quantity != "40" {
		t.Errorf("Rows[0] = %+v", doc.Rows[0])
	}

	got := strings.Join(totalLabels(doc), ",")
	if got != "Subtotal:,Tax (10%):,Total:" {
		t.Errorf("totals labels = %s", got)
	}
	if doc.Totals[2].Value != "$9240.00" || doc.Totals[2].Kind != TotalGrand {
		t.Errorf("total line = %+v", doc.Totals[2])
	}
	if doc.Notes.Body != "Thank you for your business!" {
		t.Errorf("Notes = %q", doc.Notes.Body)
	}
}

func TestBuild_OptionalTotals(t *testing.T) {
	inv := sampleInvoice()
	inv.Discount = d("400")
	inv.Shipping = d("100")
	inv.AmountPaid = d("10000")
	inv.PONumber = ""
	inv.Notes = ""
	inv.Terms = ""
	inv.ShipToAddress = "Warehouse 7"

	doc := Build(inv, models.DefaultOrganization(), nil, currency.NewRegistry())

	got := strings.Join(totalLabels(doc), ",")
	want := "Subtotal:,Discount:,Shipping:,Tax (10%):,Total:,Amount Paid:,Balance Due:"
	if got != want {
		t.Fatalf("totals labels = %s, want %s", got, want)
	}
	values := map[string]string{}
	for _, l := range doc.Totals {
		values[l.Label] = l.Value
	}
	if values["Discount:"] != "-$400.00" {
		t.Errorf("Discount = %q", values["Discount:"])
	}
	if values["Total:"] != "$8910.00" {
		t.Errorf("Total = %q", values["Total:"])
	}
	if values["Balance Due:"] != "$-1090.00" {
		t.Errorf("Balance Due = %q", values["Balance Due:"])
	}

	if len(doc.Meta) != 4 {
		t.Errorf("P.O. line should be omitted, Meta = %+v", doc.Meta)
	}
	if doc.ShipTo.Placeholder || doc.ShipTo.Address != "Warehouse 7" {
		t.Errorf("ShipTo = %+v", doc.ShipTo)
	}
	if doc.Notes.Body != DefaultNotes {
		t.Errorf("Notes = %q, want default", doc.Notes.Body)
	}
	if !strings.HasPrefix(doc.Terms.Body, "Payment is due within 30 days") {
		t.Errorf("Terms = %q, want default", doc.Terms.Body)
	}
}

func TestBuild_CurrencyAndHeaders(t *testing.T) {
	reg := currency.NewRegistry()
	reg.Add("SGD", "SGD (S$)", "S$")

	inv := sampleInvoice()
	inv.Currency = "SGD"
	inv.Headers.Rate = "Hourly Rate"
	doc := Build(inv, models.DefaultOrganization(), nil, reg)
	if doc.Rows[1].Amount != "S$2400.00" {
		t.Errorf("Amount = %q, want S$2400.00", doc.Rows[1].Amount)
	}
	if doc.Columns[3] != "Hourly Rate" {
		t.Errorf("Columns = %v", doc.Columns)
	}

	inv.Currency = "XYZ"
	doc = Build(inv, models.DefaultOrganization(), nil, reg)
	if doc.Rows[1].Amount != "XYZ2400.00" {
		t.Errorf("unknown currency Amount = %q, want XYZ2400.00", doc.Rows[1].Amount)
	}
}

func TestBuild_RoundsOnlyForDisplay(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = []models.LineItem{{Description: "Widget", Quantity: d("3"), Unit: "pcs", Rate: d("0.335")}}
	inv.TaxRate = d("7.5")

	doc := Build(inv, models.DefaultOrganization(), nil, currency.NewRegistry())
	// 3 × 0.335 = 1.005; tax 0.075375; total 1.080375
	if doc.Rows[0].Amount != "$1.01" {
		t.Errorf("Amount = %q, want $1.01", doc.Rows[0].Amount)
	}
	if doc.Totals[1].Label != "Tax (7.5%):" || doc.Totals[1].Value != "$0.08" {
		t.Errorf("tax line = %+v", doc.Totals[1])
	}
	if doc.Totals[2].Value != "$1.08" {
		t.Errorf("total = %q, want $1.08", doc.Totals[2].Value)
	}
}

func TestHTML_Deterministic(t *testing.T) {
	logo := pngDataURI(t, 40, 20)
	reg := currency.NewRegistry()

	first, err := Render(sampleInvoice(), models.DefaultOrganization(), logo, reg, FormatHTML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := Render(sampleInvoice(), models.DefaultOrganization(), logo, reg, FormatHTML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(first.Body, second.Body) {
		t.Error("rendering the same input twice produced different output")
	}
	if first.ContentType != HTMLContentType {
		t.Errorf("ContentType = %q", first.ContentType)
	}

	html := string(first.Body)
	for _, want := range []string{
		`<img src="data:image/png;base64,`,
		"<th>Item</th>",
		"Web Development",
		"$6000.00",
		"Tax (10%):",
		"total-line",
		"P.O. Number: PO-12345",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(html, `class="logo-placeholder"`) {
		t.Error("placeholder rendered alongside a valid logo")
	}
}

func TestHTML_EscapesUserContent(t *testing.T) {
	inv := sampleInvoice()
	inv.ClientName = `<script>alert("x")</script>`
	inv.Items[0].Description = `Design & <b>build</b>`
	inv.Headers.Item = `<i>Item</i>`

	art, err := Render(inv, models.DefaultOrganization(), "", currency.NewRegistry(), FormatHTML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(art.Body)
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>build</b>") || strings.Contains(html, "<i>Item</i>") {
		t.Error("user content was not escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped client name")
	}
}

func TestRender_BadLogoFallsBackToPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"not a data uri", "https://example.com/logo.png"},
		{"bad base64", "data:image/png;base64,!!!"},
		{"not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			art, err := Render(sampleInvoice(), models.DefaultOrganization(), tt.ref, currency.NewRegistry(), FormatHTML)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !art.LogoFallback || art.LogoError == nil {
				t.Error("expected LogoFallback with an error")
			}
			if !strings.Contains(string(art.Body), `<div class="logo-placeholder">LOGO</div>`) {
				t.Error("expected placeholder in output")
			}
		})
	}

	art, err := Render(sampleInvoice(), models.DefaultOrganization(), "", currency.NewRegistry(), FormatHTML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if art.LogoFallback {
		t.Error("no logo is not a fallback")
	}
}

func TestDecodeLogo_FitsBox(t *testing.T) {
	logo, err := DecodeLogo(pngDataURI(t, 960, 240))
	if err != nil {
		t.Fatalf("DecodeLogo: %v", err)
	}
	if logo.Width != 240 || logo.Height != 60 {
		t.Errorf("logo size = %dx%d, want 240x60", logo.Width, logo.Height)
	}

	small, err := DecodeLogo(pngDataURI(t, 20, 10))
	if err != nil {
		t.Fatalf("DecodeLogo: %v", err)
	}
	if small.Width != 20 || small.Height != 10 {
		t.Errorf("small logo resized to %dx%d", small.Width, small.Height)
	}
}

func TestPDF(t *testing.T) {
	inv := sampleInvoice()
	inv.Currency = "EUR"
	inv.Discount = d("10")
	inv.AmountPaid = d("100")

	art, err := Render(inv, models.DefaultOrganization(), pngDataURI(t, 40, 20), currency.NewRegistry(), FormatPDF)
	if err != nil {
		t.Fatalf("Render PDF: %v", err)
	}
	if !bytes.HasPrefix(art.Body, []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", art.Body[:8])
	}
	if art.ContentType != PDFContentType {
		t.Errorf("ContentType = %q", art.ContentType)
	}

	placeholder, err := Render(inv, models.DefaultOrganization(), "", currency.NewRegistry(), FormatPDF)
	if err != nil {
		t.Fatalf("Render PDF without logo: %v", err)
	}
	if len(placeholder.Body) == 0 {
		t.Error("empty PDF")
	}
}

func TestPDF_Deterministic(t *testing.T) {
	inv := sampleInvoice()
	logo := pngDataURI(t, 40, 20)
	first, err := Render(inv, models.DefaultOrganization(), logo, currency.NewRegistry(), FormatPDF)
	if err != nil {
		t.Fatalf("Render PDF: %v", err)
	}
	second, err := Render(inv, models.DefaultOrganization(), logo, currency.NewRegistry(), FormatPDF)
	if err != nil {
		t.Fatalf("Render PDF: %v", err)
	}
	if !bytes.Equal(first.Body, second.Body) {
		t.Error("rendering the same invoice twice produced different PDFs")
	}
	for _, stamp := range []string{"/CreationDate (D:20240115", "/ModDate (D:20240115"} {
		if !bytes.Contains(first.Body, []byte(stamp)) {
			t.Errorf("expected %s in the document info", stamp)
		}
	}
}

func TestPDFText(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		code   string
		in     string
		want   string
	}{
		{"rupee falls back to code", "₹", "INR", "₹100.00", "INR 100.00"},
		{"negative rupee", "₹", "INR", "-₹5.00", "-INR 5.00"},
		{"euro is cp1252", "€", "EUR", "€5.00", "\x805.00"},
		{"yen is cp1252", "¥", "JPY", "¥7.00", "\xa57.00"},
		{"dollar", "$", "USD", "$1.50", "$1.50"},
		{"accented name", "$", "USD", "Zoë", "Zo\xeb"},
		{"unsupported runes", "$", "USD", "東京 Ltd", "?? Ltd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pdfText(tt.symbol, tt.code)(tt.in); got != tt.want {
				t.Errorf("pdfText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPDF_RupeeInvoice(t *testing.T) {
	inv := sampleInvoice()
	inv.Currency = "INR"

	registry := currency.NewRegistry()
	doc := Build(inv, models.DefaultOrganization(), nil, registry)
	if doc.Currency != "INR" || doc.Symbol != "₹" {
		t.Fatalf("Currency/Symbol = %q/%q, want INR/₹", doc.Currency, doc.Symbol)
	}
	if got := pdfText(doc.Symbol, doc.Currency)(doc.Rows[0].Amount); got != "INR 6000.00" {
		t.Errorf("amount cell = %q, want INR 6000.00", got)
	}

	art, err := Render(inv, models.DefaultOrganization(), "", registry, FormatPDF)
	if err != nil {
		t.Fatalf("Render PDF: %v", err)
	}
	if !bytes.HasPrefix(art.Body, []byte("%PDF-")) {
		t.Error("output does not look like a PDF")
	}
}

func TestWriteFooter_PageBreaks(t *testing.T) {
	tests := []struct {
		name      string
		noteLines int
		wantPages int
	}{
		{"fits below totals", 3, 1},
		{"moves to next page", 30, 2},
		{"taller than a page is stacked", 100, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Build(sampleInvoice(), models.DefaultOrganization(), nil, currency.NewRegistry())
			doc.Notes.Body = strings.TrimSpace(strings.Repeat("A note line.\n", tt.noteLines))

			pdf := newPDF(doc)
			pageWidth, pageHeight := pdf.GetPageSize()
			pdf.SetY(pageHeight - 90)
			writeFooter(pdf, pdfText(doc.Symbol, doc.Currency), doc, pageWidth-2*pdfMargin)

			if pdf.Err() {
				t.Fatalf("pdf error: %v", pdf.Error())
			}
			if got := pdf.PageCount(); got != tt.wantPages {
				t.Errorf("PageCount = %d, want %d", got, tt.wantPages)
			}
			if y := pdf.GetY(); y > pageHeight-pdfMargin {
				t.Errorf("footer ends at y=%.1f, below the bottom margin", y)
			}
		})
	}
}

// pngWithHeaderSize encodes a 1x1 PNG whose header claims w×h pixels.
func pngWithHeaderSize(t *testing.T, w, h uint32) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 10, A: 128})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	b := buf.Bytes()
	// Signature (8) + IHDR length (4) + type (4), then width and height.
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
}

func TestDecodeLogo_RejectsOversized(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"huge dimensions", pngWithHeaderSize(t, 60000, 60000)},
		{"too wide", pngWithHeaderSize(t, 5000, 10)},
		{"long data uri", "data:image/png;base64," + strings.Repeat("A", logoMaxURILength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeLogo(tt.ref); !errors.Is(err, ErrLogoTooLarge) {
				t.Fatalf("DecodeLogo error = %v, want ErrLogoTooLarge", err)
			}
			art, err := Render(sampleInvoice(), models.DefaultOrganization(), tt.ref, currency.NewRegistry(), FormatHTML)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !art.LogoFallback {
				t.Error("oversized logo should fall back to the placeholder")
			}
		})
	}

	if _, err := DecodeLogo(pngWithHeaderSize(t, 1, 1)); err != nil {
		t.Errorf("unmodified header should decode: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatHTML, "HTML": FormatHTML, "pdf": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Error("expected error for docx")
	}
}
