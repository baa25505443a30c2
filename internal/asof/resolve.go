package asof

import (
	"sl-diff/internal/fhir"
)

// Resolve picks the effective date of a snapshot from its bundles.
//
// Every bundle timestamp (top-level, else meta.lastUpdated) is reduced to its
// day and tallied. The most frequent day wins; among days sharing the top
// count the latest one wins. When no bundle carries a usable timestamp the
// fallback is returned unchanged with ok=false.
func Resolve(bundles []fhir.Bundle, fallback Date) (d Date, ok bool) {
	counts := make(map[Date]int)
	for _, b := range bundles {
		if day, ok := ParseDate(b.Stamp()); ok {
			counts[day]++
		}
	}
	if len(counts) == 0 {
		return fallback, false
	}
	var best Date
	bestN := 0
	for day, n := range counts {
		if n > bestN || (n == bestN && day.After(best)) {
			best, bestN = day, n
		}
	}
	return best, true
}
