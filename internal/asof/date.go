// Package asof resolves the reference date ("as of") used to pick the
// currently valid price of a product.
//
// A snapshot's date comes from its bundles when they carry a timestamp, and
// from a caller-supplied fallback otherwise (the date embedded in the file
// name, else the file's modification date).
package asof

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day compared as a (year, month, day) tuple.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Compare returns -1, 0 or +1 in tuple order.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

// Before reports d < o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports d > o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// String renders the Swiss "dd.mm.yyyy" form.
func (d Date) String() string {
	return fmt.Sprintf("%02d.%02d.%d", d.Day, d.Month, d.Year)
}

// ParseDate reads the leading "yyyy-mm-dd" of s. Time of day and zone are
// ignored. Separators are not checked, only the digit groups.
func ParseDate(s string) (Date, bool) {
	if len(s) < 10 {
		return Date{}, false
	}
	y, err := strconv.Atoi(s[0:4])
	if err != nil {
		return Date{}, false
	}
	m, err := strconv.Atoi(s[5:7])
	if err != nil {
		return Date{}, false
	}
	d, err := strconv.Atoi(s[8:10])
	if err != nil {
		return Date{}, false
	}
	return Date{Year: y, Month: m, Day: d}, true
}

// ParseDotted reads "d.m.yyyy" (one or two digit day and month).
func ParseDotted(s string) (Date, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 || len(parts[0]) > 2 || len(parts[1]) > 2 || len(parts[2]) != 4 {
		return Date{}, false
	}
	var vals [3]int
	for i, p := range parts {
		if p == "" || !allDigits(p) {
			return Date{}, false
		}
		vals[i], _ = strconv.Atoi(p)
	}
	return Date{Year: vals[2], Month: vals[1], Day: vals[0]}, true
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// FromFilename finds a "dd.mm.yyyy" segment in the file stem, where segments
// are separated by '_' (e.g. "foph_sl_07.01.2026.ndjson").
func FromFilename(path string) (Date, bool) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, part := range strings.Split(stem, "_") {
		if d, ok := ParseDotted(part); ok {
			return d, true
		}
	}
	return Date{}, false
}

// Fallback is the caller-side date of one snapshot file.
type Fallback struct {
	Date  Date
	Known bool
}

// Label is the file-name friendly form, or def when the date is unknown.
func (f Fallback) Label(def string) string {
	if !f.Known {
		return def
	}
	return f.Date.String()
}

// FallbackFor derives the fallback date of a snapshot file: the date in its
// name, else its modification date in local time. Unknown when neither is
// available.
func FallbackFor(path string) Fallback {
	if d, ok := FromFilename(path); ok {
		return Fallback{Date: d, Known: true}
	}
	st, err := os.Stat(path)
	if err != nil {
		return Fallback{}
	}
	return Fallback{Date: FromTime(st.ModTime().Local()), Known: true}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
