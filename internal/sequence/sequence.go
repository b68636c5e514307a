// Package sequence mints human-readable identifiers for receipts, orders and
// prescriptions. Identifiers are a prefix, a date stamp and a random numeric
// suffix; uniqueness is not checked here but enforced by a unique index at
// persistence time, so callers must treat a duplicate-key error as retryable
// and regenerate.
package sequence

import (
	"fmt"
	"math/rand"
	"time"
)

// Generator produces identifiers from the current time. The zero value is not
// usable; construct with New.
type Generator struct {
	now func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

// NewAt fixes the clock, for tests.
func NewAt(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// NextReceiptNumber returns an identifier like RCP-20260831-0482.
func (g *Generator) NextReceiptNumber() string {
	return fmt.Sprintf("RCP-%s-%04d", g.now().Format("20060102"), rand.Intn(10000))
}

// NextOrderNumber returns an identifier like ORD-202608-0031.
func (g *Generator) NextOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%04d", g.now().Format("200601"), rand.Intn(10000))
}

// NextPrescriptionNumber returns an identifier like RXN-2026-817.
func (g *Generator) NextPrescriptionNumber() string {
	return fmt.Sprintf("RXN-%s-%03d", g.now().Format("2006"), rand.Intn(1000))
}
