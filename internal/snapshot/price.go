package snapshot

import "sl-diff/internal/asof"

// PriceSeries is the sparse history of one price type of one package.
type PriceSeries map[asof.Date]float64

// Set records amount as valid from day. A later sample for the same day
// replaces the earlier one.
func (s PriceSeries) Set(day asof.Date, amount float64) { s[day] = amount }

// EffectiveAt returns the amount of the latest sample dated on or before ref,
// or 0 when the series is empty or only has later samples.
func (s PriceSeries) EffectiveAt(ref asof.Date) float64 {
	var (
		best  asof.Date
		price float64
		found bool
	)
	for day, amount := range s {
		if day.After(ref) {
			continue
		}
		if !found || day.After(best) {
			best, price, found = day, amount, true
		}
	}
	return price
}
