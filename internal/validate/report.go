// Package validate checks an assembled change report before it is written.
// It is not a JSON-Schema validator; it checks the invariants the consumer
// relies on and aggregates every issue into a single error.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"sl-diff/internal/changes"
	"sl-diff/internal/fhir"
	"sl-diff/internal/flags"
)

// Report validates res:
//
//   - every gtin is a 13-digit GTIN with the Swiss pharma prefix
//   - every record carries exactly the flags of its category, all of them
//     defined in the legend and produced by this engine
//   - no gtin is both new and deleted, or deleted and in any other category
//   - no gtin is both up and down for one price type
//   - price records move by more than the epsilon, in their category's direction
//
// It returns nil if everything looks fine.
func Report(res *changes.Result) error {
	var errs errlist
	if res == nil {
		errs.add("report is nil")
		return errs.err()
	}

	members := make(map[changes.Category]map[string]struct{}, len(changes.Categories))
	for _, c := range changes.Categories {
		set := make(map[string]struct{})
		for i, gtin := range res.GTINs(c) {
			if !fhir.IsGTIN(gtin) {
				errs.add("%s[%d]: invalid gtin %q", c, i, gtin)
			}
			if _, dup := set[gtin]; dup {
				errs.add("%s[%d]: duplicate gtin %s", c, i, gtin)
			}
			set[gtin] = struct{}{}
		}
		members[c] = set
	}

	checkFlags(&errs, res)
	checkPrices(&errs, changes.CatRetailUp, res.RetailUp, true)
	checkPrices(&errs, changes.CatRetailDown, res.RetailDown, false)
	checkPrices(&errs, changes.CatExFactoryUp, res.ExFactoryUp, true)
	checkPrices(&errs, changes.CatExFactoryDown, res.ExFactoryDown, false)

	for gtin := range members[changes.CatDel] {
		for _, c := range changes.Categories {
			if c == changes.CatDel {
				continue
			}
			if _, ok := members[c][gtin]; ok {
				errs.add("gtin %s is in del and %s", gtin, c)
			}
		}
	}
	for gtin := range members[changes.CatNew] {
		for _, c := range changes.Categories {
			if c == changes.CatNew {
				continue
			}
			if _, ok := members[c][gtin]; ok {
				errs.add("gtin %s is in new and %s", gtin, c)
			}
		}
	}
	exclusive := [][2]changes.Category{
		{changes.CatRetailUp, changes.CatRetailDown},
		{changes.CatExFactoryUp, changes.CatExFactoryDown},
		{changes.CatSLEntry, changes.CatSLEntryDelete},
	}
	for _, pair := range exclusive {
		for gtin := range members[pair[0]] {
			if _, ok := members[pair[1]][gtin]; ok {
				errs.add("gtin %s is in both %s and %s", gtin, pair[0], pair[1])
			}
		}
	}

	return errs.err()
}

func checkFlags(errs *errlist, res *changes.Result) {
	check := func(c changes.Category, i int, got []flags.Code) {
		want := c.Flags()
		if !equalCodes(got, want) {
			errs.add("%s[%d]: flags %v, want %v", c, i, got, want)
		}
		for _, code := range got {
			if !flags.Valid(code) || !flags.EmittedByEngine(code) {
				errs.add("%s[%d]: flag %d not emitted by this report", c, i, int(code))
			}
		}
	}
	for i, r := range res.New {
		check(changes.CatNew, i, r.Flags)
	}
	for i, r := range res.Del {
		check(changes.CatDel, i, r.Flags)
	}
	for i, r := range res.SLEntry {
		check(changes.CatSLEntry, i, r.Flags)
	}
	for i, r := range res.SLEntryDelete {
		check(changes.CatSLEntryDelete, i, r.Flags)
	}
	for i, r := range res.NameBase {
		check(changes.CatNameBase, i, r.Flags)
	}
	for c, recs := range map[changes.Category][]changes.PriceRecord{
		changes.CatRetailUp:      res.RetailUp,
		changes.CatRetailDown:    res.RetailDown,
		changes.CatExFactoryUp:   res.ExFactoryUp,
		changes.CatExFactoryDown: res.ExFactoryDown,
	} {
		for i, r := range recs {
			check(c, i, r.Flags)
		}
	}
}

func checkPrices(errs *errlist, c changes.Category, recs []changes.PriceRecord, up bool) {
	for i, r := range recs {
		if math.Abs(r.Difference) <= changes.PriceEpsilon {
			errs.add("%s[%d] (%s): difference %v within epsilon", c, i, r.GTIN, r.Difference)
		}
		if up != (r.Difference > 0) {
			errs.add("%s[%d] (%s): difference %v has the wrong sign", c, i, r.GTIN, r.Difference)
		}
	}
}

func equalCodes(a, b []flags.Code) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if e == nil || len(e.msgs) == 0 {
		return nil
	}
	// Join with newline for readability.
	return errors.New(strings.Join(e.msgs, "\n"))
}
