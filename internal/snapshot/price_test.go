package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sl-diff/internal/asof"
)

func day(y, m, d int) asof.Date { return asof.Date{Year: y, Month: m, Day: d} }

func TestEffectiveAtSingleSampleOnOrBefore(t *testing.T) {
	s := PriceSeries{}
	s.Set(day(2025, 1, 1), 12.5)
	assert.Equal(t, 12.5, s.EffectiveAt(day(2025, 1, 1)))
	assert.Equal(t, 12.5, s.EffectiveAt(day(2025, 6, 1)))
}

func TestEffectiveAtOnlyFutureSamples(t *testing.T) {
	s := PriceSeries{}
	s.Set(day(2025, 2, 1), 9)
	s.Set(day(2026, 1, 1), 11)
	assert.Zero(t, s.EffectiveAt(day(2025, 1, 31)))
}

func TestEffectiveAtPicksLatestNotAfterRef(t *testing.T) {
	s := PriceSeries{}
	s.Set(day(2023, 5, 1), 8)
	s.Set(day(2024, 7, 1), 10)
	s.Set(day(2024, 12, 31), 11)
	s.Set(day(2025, 3, 1), 14)
	assert.Equal(t, 11.0, s.EffectiveAt(day(2025, 1, 1)))
	assert.Equal(t, 14.0, s.EffectiveAt(day(2025, 3, 1)))
}

func TestEffectiveAtEmpty(t *testing.T) {
	assert.Zero(t, PriceSeries{}.EffectiveAt(day(2025, 1, 1)))
}

func TestSetSameDayOverwrites(t *testing.T) {
	s := PriceSeries{}
	s.Set(day(2024, 1, 1), 5)
	s.Set(day(2024, 1, 1), 6)
	assert.Len(t, s, 1)
	assert.Equal(t, 6.0, s.EffectiveAt(day(2024, 1, 1)))
}
