// Package snapshot turns the bundles of one export into a PackageMap: one
// resolved record per GTIN with its effective prices and listing status.
package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"sl-diff/internal/sortutil"
)

// PriceType distinguishes the two prices published per package.
type PriceType string

const (
	Retail    PriceType = "retail"
	ExFactory PriceType = "exfactory"
)

// PriceTypes lists the price types in output order.
var PriceTypes = []PriceType{Retail, ExFactory}

// UnknownName is used when a product carries neither description nor text.
const UnknownName = "Unknown Product"

// Package is the resolved view of one product in one snapshot. A price of 0
// means no effective price.
type Package struct {
	GTIN           string  `json:"gtin"`
	Name           string  `json:"name"`
	RetailPrice    float64 `json:"retail_price"`
	ExFactoryPrice float64 `json:"exfactory_price"`
	HasSLEntry     bool    `json:"has_sl_entry"`
}

// Price returns the effective price of the given type.
func (p Package) Price(t PriceType) float64 {
	if t == Retail {
		return p.RetailPrice
	}
	return p.ExFactoryPrice
}

// retained reports whether the package is kept in a snapshot: it has a price
// or is listed.
func (p Package) retained() bool {
	return p.RetailPrice > 0 || p.ExFactoryPrice > 0 || p.HasSLEntry
}

// PackageMap indexes packages by GTIN.
type PackageMap map[string]Package

// GTINs returns the keys in ascending order.
func (m PackageMap) GTINs() []string { return sortutil.SortedKeys(m) }

// Merge copies every package of src into m, overwriting on GTIN collision.
// It returns the colliding GTINs and, of those, the ones whose records
// differed, both in ascending order.
func (m PackageMap) Merge(src PackageMap) (dup, conflict []string) {
	for _, gtin := range src.GTINs() {
		if prev, ok := m[gtin]; ok {
			dup = append(dup, gtin)
			if prev != src[gtin] {
				conflict = append(conflict, gtin)
			}
		}
		m[gtin] = src[gtin]
	}
	return dup, conflict
}

// Listing renders m as one tab-separated line per package in GTIN order:
// gtin, name, retail, ex-factory, SL flag. It is the text compared by the
// patch writer.
func Listing(m PackageMap) string {
	var sb strings.Builder
	for _, gtin := range m.GTINs() {
		p := m[gtin]
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\n",
			gtin, p.Name, formatPrice(p.RetailPrice), formatPrice(p.ExFactoryPrice), slMark(p.HasSLEntry))
	}
	return sb.String()
}

func formatPrice(v float64) string {
	if v <= 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func slMark(sl bool) string {
	if sl {
		return "SL"
	}
	return "-"
}
