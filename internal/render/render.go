package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/invoicer/internal/models"
)

// Format selects a serializer.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat converts a string to a Format; empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported document format %q", s)
}

// Artifact is a rendered document.
type Artifact struct {
	Format      Format
	ContentType string
	Body        []byte

	// LogoFallback is set when a logo was supplied but could not be decoded
	// and the placeholder was drawn instead.
	LogoFallback bool
	LogoError    error
}

// Render lays out and serializes an invoice in one call.
// A logo that cannot be decoded never fails the render; see Artifact.LogoFallback.
func Render(inv *models.Invoice, org models.Organization, logoRef string, symbols SymbolLookup, format Format) (*Artifact, error) {
	artifact := &Artifact{Format: format}

	logo, err := DecodeLogo(logoRef)
	if err != nil && !errors.Is(err, ErrNoLogo) {
		artifact.LogoFallback = true
		artifact.LogoError = err
	}

	doc := Build(inv, org, logo, symbols)

	switch format {
	case FormatHTML:
		artifact.ContentType = HTMLContentType
		artifact.Body, err = HTML(doc)
	case FormatPDF:
		artifact.ContentType = PDFContentType
		artifact.Body, err = PDF(doc)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return artifact, nil
}
