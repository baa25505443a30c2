package changes

import (
	"errors"
	"fmt"
	"strings"

	"sl-diff/internal/flags"
)

// Category names one array of the report.
type Category string

const (
	CatNew           Category = "new"
	CatDel           Category = "del"
	CatSLEntry       Category = "sl_entry"
	CatSLEntryDelete Category = "sl_entry_delete"
	CatNameBase      Category = "name_base"
	CatRetailUp      Category = "retail_up"
	CatRetailDown    Category = "retail_down"
	CatExFactoryUp   Category = "exfactory_up"
	CatExFactoryDown Category = "exfactory_down"
)

// Categories lists all categories in document order.
var Categories = []Category{
	CatNew, CatDel, CatSLEntry, CatSLEntryDelete, CatNameBase,
	CatRetailUp, CatRetailDown, CatExFactoryUp, CatExFactoryDown,
}

// ErrUnknownCategory is returned by ParseCategory for an unrecognized name.
var ErrUnknownCategory = errors.New("unknown category")

var aliases = map[string]Category{
	"delete":               CatDel,
	"name":                 CatNameBase,
	"productname":          CatNameBase,
	"price_rise_retail":    CatRetailUp,
	"price_cut_retail":     CatRetailDown,
	"price_rise_exfactory": CatExFactoryUp,
	"price_cut_exfactory":  CatExFactoryDown,
}

// ParseCategory accepts a category name or one of its aliases. Leading
// dashes are ignored so "--retail_up" works as well.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimLeft(strings.TrimSpace(s), "-")
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	if c, ok := aliases[name]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCategory, s)
}

// CategoryNames is the help text listing of valid names.
func CategoryNames() string {
	parts := make([]string, len(Categories))
	for i, c := range Categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// Flags returns the flag codes attached to records of c.
func (c Category) Flags() []flags.Code {
	switch c {
	case CatNew:
		return []flags.Code{flags.New}
	case CatDel:
		return []flags.Code{flags.Delete}
	case CatSLEntry:
		return []flags.Code{flags.SLEntry}
	case CatSLEntryDelete:
		return []flags.Code{flags.SLEntryDelete}
	case CatNameBase:
		return []flags.Code{flags.NameBase}
	case CatRetailUp, CatExFactoryUp:
		return []flags.Code{flags.Price, flags.PriceRise}
	case CatRetailDown, CatExFactoryDown:
		return []flags.Code{flags.Price, flags.PriceCut}
	default:
		return nil
	}
}

// GTINs returns the gtins of category c in report order.
func (r *Result) GTINs(c Category) []string {
	var out []string
	each := func(gtin string) { out = append(out, gtin) }
	switch c {
	case CatNew:
		for _, x := range r.New {
			each(x.GTIN)
		}
	case CatDel:
		for _, x := range r.Del {
			each(x.GTIN)
		}
	case CatSLEntry:
		for _, x := range r.SLEntry {
			each(x.GTIN)
		}
	case CatSLEntryDelete:
		for _, x := range r.SLEntryDelete {
			each(x.GTIN)
		}
	case CatNameBase:
		for _, x := range r.NameBase {
			each(x.GTIN)
		}
	default:
		for _, x := range r.prices(c) {
			each(x.GTIN)
		}
	}
	return out
}

func (r *Result) prices(c Category) []PriceRecord {
	switch c {
	case CatRetailUp:
		return r.RetailUp
	case CatRetailDown:
		return r.RetailDown
	case CatExFactoryUp:
		return r.ExFactoryUp
	case CatExFactoryDown:
		return r.ExFactoryDown
	default:
		return nil
	}
}

// Count is the size of one category.
type Count struct {
	Category Category
	Flags    []flags.Code
	N        int
}

// Counts returns the size of every category in document order.
func (r *Result) Counts() []Count {
	out := make([]Count, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, Count{Category: c, Flags: c.Flags(), N: len(r.GTINs(c))})
	}
	return out
}
