package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

// PDFContentType is the MIME type of PDF output.
const PDFContentType = "application/pdf"

// Page geometry in millimetres (A4 portrait).
const (
	pdfMargin     = 15.0
	pdfLineHeight = 5.0
	pdfLogoWidth  = 30.0
	pdfLogoHeight = 15.0
)

// epoch stamps documents whose issue date cannot be parsed, keeping output reproducible.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// PDF serializes a document to A4 pages.
// Both document dates are taken from the issue date so identical input yields identical bytes.
func PDF(doc Document) ([]byte, error) {
	pdf := newPDF(doc)
	tr := pdfText(doc.Symbol, doc.Currency)
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pdfMargin

	writeHeader(pdf, tr, doc, contentWidth)
	writeParties(pdf, tr, doc, contentWidth)
	writeTable(pdf, tr, doc, contentWidth)
	writeTotals(pdf, tr, doc, pageWidth)
	writeFooter(pdf, tr, doc, contentWidth)

	if pdf.Err() {
		return nil, fmt.Errorf("failed to render pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func newPDF(doc Document) *gofpdf.Fpdf {
	stamp := creationDate(doc.IssueDate)
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()
	return pdf
}

// pdfText encodes text for the core fonts, which only cover cp1252.
// A currency symbol outside cp1252 (₹, ₩, ...) is printed as its code;
// any other unsupported rune prints as '?'.
func pdfText(symbol, code string) func(string) string {
	replacer := strings.NewReplacer()
	if symbol != "" && !cp1252(symbol) {
		replacer = strings.NewReplacer(symbol, code+" ")
	}
	return func(s string) string {
		s = replacer.Replace(s)
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if c, ok := charmap.Windows1252.EncodeRune(r); ok {
				b.WriteByte(c)
			} else {
				b.WriteByte('?')
			}
		}
		return b.String()
	}
}

func cp1252(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

func creationDate(issueDate string) time.Time {
	if t, err := time.Parse("2006-01-02", issueDate); err == nil {
		return t
	}
	return epoch
}

func writeHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc Document, width float64) {
	top := pdf.GetY()

	if doc.Logo != nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(doc.Logo.PNG))
		pdf.ImageOptions("logo", pdfMargin, top, 0, pdfLogoHeight, false, opts, 0, "")
	} else {
		pdf.SetDrawColor(204, 204, 204)
		pdf.SetDashPattern([]float64{1, 1}, 0)
		pdf.Rect(pdfMargin, top, pdfLogoWidth, pdfLogoHeight, "D")
		pdf.SetDashPattern([]float64{}, 0)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(204, 204, 204)
		pdf.SetXY(pdfMargin, top)
		pdf.CellFormat(pdfLogoWidth, pdfLogoHeight, LogoPlaceholder, "", 0, "CM", false, 0, "")
	}

	// Organization block to the right of the logo.
	orgX := pdfMargin + pdfLogoWidth + 5
	pdf.SetXY(orgX, top)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 6, tr(doc.Organization.Name), "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.MultiCell(70, 4, tr(doc.Organization.Address), "", "L", false)
	pdf.SetX(orgX)
	pdf.CellFormat(70, 4, tr(doc.Organization.Contact), "", 2, "L", false, 0, "")
	if doc.Organization.Website != "" {
		pdf.CellFormat(70, 4, tr(doc.Organization.Website), "", 2, "L", false, 0, "")
	}
	leftBottom := pdf.GetY()

	// Invoice title and details, right aligned.
	pdf.SetXY(pdfMargin, top)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(width, 10, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(102, 102, 102)
	for _, m := range doc.Meta {
		pdf.SetX(pdfMargin)
		pdf.CellFormat(width, pdfLineHeight, tr(m.Label+" "+m.Value), "", 1, "R", false, 0, "")
	}

	pdf.SetY(maxFloat(leftBottom, pdf.GetY(), top+pdfLogoHeight) + 8)
}

func writeParties(pdf *gofpdf.Fpdf, tr func(string) string, doc Document, width float64) {
	colWidth := (width - 10) / 2
	top := pdf.GetY()

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(pdfMargin, top)
	pdf.CellFormat(colWidth, 6, tr(doc.BillTo.Heading), "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colWidth, pdfLineHeight, tr(doc.BillTo.Name), "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.MultiCell(colWidth, 4, tr(doc.BillTo.Address), "", "L", false)
	leftBottom := pdf.GetY()

	shipX := pdfMargin + colWidth + 10
	pdf.SetXY(shipX, top)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(colWidth, 6, tr(doc.ShipTo.Heading), "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if doc.ShipTo.Placeholder {
		pdf.SetTextColor(170, 170, 170)
	} else {
		pdf.SetTextColor(102, 102, 102)
	}
	pdf.SetX(shipX)
	pdf.MultiCell(colWidth, 4, tr(doc.ShipTo.Address), "", "L", false)

	pdf.SetY(maxFloat(leftBottom, pdf.GetY()) + 8)
}

func writeTable(pdf *gofpdf.Fpdf, tr func(string) string, doc Document, width float64) {
	widths := []float64{width * 0.40, width * 0.14, width * 0.14, width * 0.16, width * 0.16}
	aligns := []string{"L", "C", "C", "C", "R"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(51, 51, 51)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(pdfMargin)
	for i, label := range doc.Columns {
		pdf.CellFormat(widths[i], 8, tr(label), "", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetDrawColor(221, 221, 221)
	for i, row := range doc.Rows {
		pdf.SetFillColor(249, 249, 249)
		fill := i%2 == 1
		cells := []string{row.Description, row.Quantity, row.Unit, row.Rate, row.Amount}
		pdf.SetX(pdfMargin)
		for j, text := range cells {
			pdf.CellFormat(widths[j], 7, tr(text), "B", 0, aligns[j], fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func writeTotals(pdf *gofpdf.Fpdf, tr func(string) string, doc Document, pageWidth float64) {
	const blockWidth = 80.0
	x := pageWidth - pdfMargin - blockWidth

	for _, line := range doc.Totals {
		pdf.SetX(x)
		style, size := "", 9.0
		pdf.SetTextColor(51, 51, 51)
		switch line.Kind {
		case TotalDiscount:
			pdf.SetTextColor(40, 167, 69)
		case TotalGrand:
			style, size = "B", 11
			pdf.SetDrawColor(51, 51, 51)
			pdf.SetLineWidth(0.5)
			pdf.Line(x, pdf.GetY(), x+blockWidth, pdf.GetY())
			pdf.SetLineWidth(0.2)
		case TotalBalance:
			style = "B"
		}
		pdf.SetFont("Arial", style, size)
		pdf.CellFormat(blockWidth/2, 6, tr(line.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(blockWidth/2, 6, tr(line.Value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(8)
}

// writeFooter prints Notes and Terms side by side. Columns that do not fit
// below the totals move to a new page; columns taller than a page are stacked.
func writeFooter(pdf *gofpdf.Fpdf, tr func(string) string, doc Document, width float64) {
	colWidth := (width - 10) / 2
	sections := []Section{doc.Notes, doc.Terms}

	pdf.SetFont("Arial", "", 9)
	height := 0.0
	for _, section := range sections {
		lines := len(pdf.SplitLines([]byte(tr(section.Body)), colWidth))
		height = maxFloat(height, 6+4*float64(lines))
	}

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pdfMargin
	top := pdf.GetY()
	if top+height > bottom {
		if pdfMargin+height > bottom {
			for _, section := range sections {
				pdf.SetX(pdfMargin)
				writeSection(pdf, tr, section, width)
				pdf.Ln(4)
			}
			return
		}
		pdf.AddPage()
		top = pdf.GetY()
	}

	for i, section := range sections {
		pdf.SetXY(pdfMargin+float64(i)*(colWidth+10), top)
		writeSection(pdf, tr, section, colWidth)
	}
}

// writeSection prints a titled block starting at the current position.
func writeSection(pdf *gofpdf.Fpdf, tr func(string) string, section Section, width float64) {
	x := pdf.GetX()
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(width, 6, tr(section.Title), "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.SetX(x)
	pdf.MultiCell(width, 4, tr(section.Body), "", "L", false)
}

func maxFloat(first float64, rest ...float64) float64 {
	m := first
	for _, v := range rest {
		if v > m {
			m = v
		}
	}
	return m
}
