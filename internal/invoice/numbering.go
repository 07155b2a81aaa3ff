package invoice

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// NumberPrefix starts every invoice number.
const NumberPrefix = "INV-"

// Numberer assigns human readable invoice numbers.
type Numberer interface {
	Next(ctx context.Context) (string, error)
}

// SequenceSource hands out a persistent, strictly increasing sequence.
type SequenceSource interface {
	NextInvoiceSequence(ctx context.Context) (int64, error)
}

// SequenceNumberer produces INV-0001, INV-0002, ... from a persistent sequence.
type SequenceNumberer struct {
	source SequenceSource
	width  int
}

// NewSequenceNumberer creates a numberer that zero-pads the sequence to width digits.
func NewSequenceNumberer(source SequenceSource, width int) *SequenceNumberer {
	if width < 1 {
		width = 4
	}
	return &SequenceNumberer{source: source, width: width}
}

// Next returns the next number in the sequence.
func (n *SequenceNumberer) Next(ctx context.Context) (string, error) {
	seq, err := n.source.NextInvoiceSequence(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", NumberPrefix, n.width, seq), nil
}

// UUIDNumberer produces numbers from random UUIDs
// (e.g., INV-3F2A9C1B7D0E4F6A8B1C2D3E4F5A6B7C).
// Numbers do not sort by date.
type UUIDNumberer struct{}

// Next returns a new random invoice number.
func (UUIDNumberer) Next(context.Context) (string, error) {
	id := uuid.New()
	return NumberPrefix + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")), nil
}

// CounterNumberer is an in-process monotonic counter. Numbers restart with the process.
type CounterNumberer struct {
	n atomic.Int64
}

// NewCounterNumberer creates a counter whose first number is start+1.
func NewCounterNumberer(start int64) *CounterNumberer {
	c := &CounterNumberer{}
	c.n.Store(start)
	return c
}

// Next returns the next counter value as an invoice number.
func (c *CounterNumberer) Next(context.Context) (string, error) {
	return fmt.Sprintf("%s%04d", NumberPrefix, c.n.Add(1)), nil
}
