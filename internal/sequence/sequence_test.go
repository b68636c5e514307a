package sequence_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jelpapharm/server/internal/sequence"
)

func fixedClock() time.Time {
	return time.Date(2026, time.August, 31, 15, 4, 5, 0, time.UTC)
}

func TestReceiptNumberFormat(t *testing.T) {
	g := sequence.NewAt(fixedClock)
	for i := 0; i < 50; i++ {
		n := g.NextReceiptNumber()
		assert.Regexp(t, regexp.MustCompile(`^RCP-20260831-\d{4}$`), n)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	g := sequence.NewAt(fixedClock)
	assert.Regexp(t, `^ORD-202608-\d{4}$`, g.NextOrderNumber())
}

func TestPrescriptionNumberFormat(t *testing.T) {
	g := sequence.NewAt(fixedClock)
	assert.Regexp(t, `^RXN-2026-\d{3}$`, g.NextPrescriptionNumber())
}

func TestReceiptNumbersVary(t *testing.T) {
	// Probabilistic suffixes: 50 draws from 10000 values should not all match.
	g := sequence.New()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[g.NextReceiptNumber()] = true
	}
	assert.Greater(t, len(seen), 1)
}
