package fhir

import (
	"bytes"
	"encoding/json"
)

// Text is a JSON string. Any other JSON kind decodes to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

// Number is a JSON number. Any other JSON kind decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

func (m *Meta) UnmarshalJSON(b []byte) error {
	type plain Meta
	var v plain
	if json.Unmarshal(b, &v) == nil {
		*m = Meta(v)
	}
	return nil
}

func (n *Narrative) UnmarshalJSON(b []byte) error {
	type plain Narrative
	var v plain
	if json.Unmarshal(b, &v) == nil {
		*n = Narrative(v)
	}
	return nil
}

func (p *Packaging) UnmarshalJSON(b []byte) error {
	type plain Packaging
	var v plain
	if json.Unmarshal(b, &v) == nil {
		*p = Packaging(v)
	}
	return nil
}

func (c *Concept) UnmarshalJSON(b []byte) error {
	type plain Concept
	var v plain
	if json.Unmarshal(b, &v) == nil {
		*c = Concept(v)
	}
	return nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	type plain Money
	var v plain
	if json.Unmarshal(b, &v) == nil {
		*m = Money(v)
	}
	return nil
}

// Entries is a bundle's entry array; unreadable elements are skipped.
type Entries []Entry

func (e *Entries) UnmarshalJSON(b []byte) error {
	var out Entries
	eachElement(b, func(raw json.RawMessage) {
		var v Entry
		if json.Unmarshal(raw, &v) == nil {
			out = append(out, v)
		}
	})
	*e = out
	return nil
}

// Identifiers is a list of identifiers; unreadable elements are skipped.
type Identifiers []Identifier

func (l *Identifiers) UnmarshalJSON(b []byte) error {
	var out Identifiers
	eachElement(b, func(raw json.RawMessage) {
		var v Identifier
		if json.Unmarshal(raw, &v) == nil {
			out = append(out, v)
		}
	})
	*l = out
	return nil
}

// Codings is a list of codings; unreadable elements are skipped.
type Codings []Coding

func (l *Codings) UnmarshalJSON(b []byte) error {
	var out Codings
	eachElement(b, func(raw json.RawMessage) {
		var v Coding
		if json.Unmarshal(raw, &v) == nil {
			out = append(out, v)
		}
	})
	*l = out
	return nil
}

// References is a list of references; unreadable elements are skipped.
type References []Reference

// First returns the first reference string, or "".
func (l References) First() string {
	if len(l) == 0 {
		return ""
	}
	return string(l[0].Reference)
}

func (l *References) UnmarshalJSON(b []byte) error {
	var out References
	eachElement(b, func(raw json.RawMessage) {
		var v Reference
		if json.Unmarshal(raw, &v) == nil {
			out = append(out, v)
		}
	})
	*l = out
	return nil
}

// Extensions is a list of extensions; unreadable elements are skipped.
type Extensions []Extension

func (l *Extensions) UnmarshalJSON(b []byte) error {
	var out Extensions
	eachElement(b, func(raw json.RawMessage) {
		var v Extension
		if json.Unmarshal(raw, &v) == nil {
			out = append(out, v)
		}
	})
	*l = out
	return nil
}

// eachElement calls fn for every element when b is a JSON array and does
// nothing otherwise.
func eachElement(b []byte, fn func(json.RawMessage)) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return
	}
	for _, raw := range elems {
		fn(raw)
	}
}
