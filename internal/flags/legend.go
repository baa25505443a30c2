// Package flags holds the numeric change taxonomy shared with the downstream
// consumer of the diff. Codes are fixed: never renumber or reuse one.
package flags

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Code is one entry of the legend.
type Code int

const (
	New           Code = 1
	SLEntryDelete Code = 2
	NameBase      Code = 3
	Address       Code = 4
	IKSCat        Code = 5
	Composition   Code = 6
	Indication    Code = 7
	Sequence      Code = 8
	ExpiryDate    Code = 9
	SLEntry       Code = 10
	Price         Code = 11
	Comment       Code = 12
	PriceRise     Code = 13
	Delete        Code = 14
	PriceCut      Code = 15
	NotSpecified  Code = 16
)

var names = [...]string{
	New:           "new",
	SLEntryDelete: "sl_entry_delete",
	NameBase:      "name_base",
	Address:       "address",
	IKSCat:        "ikscat",
	Composition:   "composition",
	Indication:    "indication",
	Sequence:      "sequence",
	ExpiryDate:    "expiry_date",
	SLEntry:       "sl_entry",
	Price:         "price",
	Comment:       "comment",
	PriceRise:     "price_rise",
	Delete:        "delete",
	PriceCut:      "price_cut",
	NotSpecified:  "not_specified",
}

// Codes 4-9, 12 and 16 belong to the Swissmedic registry diff and are never
// produced from the FOPH export.
var emitted = map[Code]bool{
	New: true, SLEntryDelete: true, NameBase: true, SLEntry: true,
	Price: true, PriceRise: true, Delete: true, PriceCut: true,
}

// Valid reports whether c is defined in the legend.
func Valid(c Code) bool { return c >= New && c <= NotSpecified }

// EmittedByEngine reports whether the FOPH diff ever produces c.
func EmittedByEngine(c Code) bool { return emitted[c] }

// Name returns the category name of c, or "" for an undefined code.
func (c Code) Name() string {
	if !Valid(c) {
		return ""
	}
	return names[c]
}

func (c Code) String() string {
	if n := c.Name(); n != "" {
		return n
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Legend returns a fresh copy of the code to name table.
func Legend() map[Code]string {
	out := make(map[Code]string, len(names)-1)
	for c := New; c <= NotSpecified; c++ {
		out[c] = names[c]
	}
	return out
}

// LegendJSON is the legend as a JSON object keyed "1".."16" in numeric order.
type LegendJSON struct{}

func (LegendJSON) MarshalJSON() ([]byte, error) {
	legend := Legend()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for c := New; c <= NotSpecified; c++ {
		if c > New {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(int(c))))
		buf.WriteByte(':')
		name, err := json.Marshal(legend[c])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
