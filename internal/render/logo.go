package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Logos are scaled down to fit this box; smaller images are left as they are.
const (
	logoMaxWidth  = 240
	logoMaxHeight = 120

	// Larger uploads are rejected before any pixel data is decoded.
	logoMaxURILength = 2 << 20
	logoMaxSide      = 4096
)

var (
	// ErrNoLogo is returned for an empty logo reference.
	ErrNoLogo = errors.New("no logo")

	// ErrLogoFormat is returned when a logo reference is not a base64 data URI.
	ErrLogoFormat = errors.New("logo must be a base64 data URI")

	// ErrLogoTooLarge is returned for logos over the size limits.
	ErrLogoTooLarge = errors.New("logo is too large")
)

// Logo is a decoded logo, re-encoded as PNG.
type Logo struct {
	PNG    []byte
	Width  int
	Height int
}

// DataURI returns the logo as a data:image/png URI.
func (l *Logo) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(l.PNG)
}

// DecodeLogo parses a data URI (e.g., "data:image/jpeg;base64,...") and
// normalizes the image to a bounded PNG. Any failure is reported so the caller
// can fall back to the placeholder.
func DecodeLogo(ref string) (*Logo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNoLogo
	}

	payload, err := dataURIPayload(ref)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo: %w", err)
	}
	if cfg.Width > logoMaxSide || cfg.Height > logoMaxSide {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrLogoTooLarge, cfg.Width, cfg.Height, logoMaxSide, logoMaxSide)
	}

	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo: %w", err)
	}
	img = imaging.Fit(img, logoMaxWidth, logoMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}

	bounds := img.Bounds()
	return &Logo{PNG: buf.Bytes(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func dataURIPayload(ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, "data:") {
		return nil, ErrLogoFormat
	}
	if len(ref) > logoMaxURILength {
		return nil, fmt.Errorf("%w: data URI is %d bytes", ErrLogoTooLarge, len(ref))
	}
	meta, data, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrLogoFormat
	}
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoFormat, err)
	}
	return payload, nil
}
