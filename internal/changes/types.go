// Package changes compares two resolved snapshots and classifies every
// difference into the categories of the FOPH change report.
package changes

import (
	"sl-diff/internal/flags"
	"sl-diff/internal/snapshot"
)

// PriceEpsilon is the smallest price movement reported. A change must be
// strictly larger.
const PriceEpsilon = 0.001

// Base is carried by every record.
type Base struct {
	GTIN  string       `json:"gtin"`
	Name  string       `json:"name"`
	Flags []flags.Code `json:"flags"`
}

// PackageRecord is a package that appeared or disappeared. Prices are null
// when the package had no effective price.
type PackageRecord struct {
	Base
	RetailPrice    *float64 `json:"retail_price"`
	ExFactoryPrice *float64 `json:"exfactory_price"`
}

// NameRecord is a package whose name changed.
type NameRecord struct {
	Base
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// PriceRecord is a price movement of one type. Old and new prices are null
// when no price was effective on that side; Difference then counts the
// missing side as 0.
type PriceRecord struct {
	Base
	Type       snapshot.PriceType `json:"type"`
	OldPrice   *float64           `json:"old_price"`
	NewPrice   *float64           `json:"new_price"`
	Difference float64            `json:"difference"`
}

// Result is the full report. Field order is the document order.
type Result struct {
	Legend        flags.LegendJSON `json:"_flag_legend"`
	New           []PackageRecord  `json:"new"`
	Del           []PackageRecord  `json:"del"`
	SLEntry       []Base           `json:"sl_entry"`
	SLEntryDelete []Base           `json:"sl_entry_delete"`
	NameBase      []NameRecord     `json:"name_base"`
	RetailUp      []PriceRecord    `json:"retail_up"`
	RetailDown    []PriceRecord    `json:"retail_down"`
	ExFactoryUp   []PriceRecord    `json:"exfactory_up"`
	ExFactoryDown []PriceRecord    `json:"exfactory_down"`
}

func newResult() *Result {
	return &Result{
		New:           []PackageRecord{},
		Del:           []PackageRecord{},
		SLEntry:       []Base{},
		SLEntryDelete: []Base{},
		NameBase:      []NameRecord{},
		RetailUp:      []PriceRecord{},
		RetailDown:    []PriceRecord{},
		ExFactoryUp:   []PriceRecord{},
		ExFactoryDown: []PriceRecord{},
	}
}

// nullable maps "no effective price" (0) to null.
func nullable(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
