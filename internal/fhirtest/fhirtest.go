// Package fhirtest builds FOPH-shaped bundle documents for tests.
package fhirtest

import (
	"encoding/json"
	"strings"

	"sl-diff/internal/fhir"
)

// Doc is a JSON object under construction.
type Doc = map[string]any

// Price describes one productPrice extension.
type Price struct {
	Retail bool
	Amount any // number normally; any value to exercise malformed input
	Date   string
}

// Product returns a PackagedProductDefinition with a GTIN identifier.
// An empty name omits the description.
func Product(id, gtin, name string) Doc {
	d := Doc{
		"resourceType": fhir.TypePackagedProductDefinition,
		"id":           id,
		"packaging": Doc{
			"identifier": []any{
				Doc{"system": "urn:other", "value": "7680999999999"},
				Doc{"system": fhir.GTINSystem, "value": gtin},
			},
		},
	}
	if name != "" {
		d["description"] = name
	}
	return d
}

// Authorization returns a RegulatedAuthorization for subject (a resource key).
// sl controls whether it carries the Spezialitätenliste type code.
func Authorization(id, subject string, sl bool, prices ...Price) Doc {
	code := "756000001001"
	if sl {
		code = fhir.CodeSLEntry
	}
	exts := make([]any, 0, len(prices))
	for _, p := range prices {
		typ := fhir.CodeExFactoryPrice
		if p.Retail {
			typ = fhir.CodeRetailPrice
		}
		exts = append(exts, Doc{
			"url": "http://fhir.ch/ig/ch-epl/StructureDefinition/productPrice",
			"extension": []any{
				Doc{"url": fhir.PriceSubType, "valueCodeableConcept": Doc{"coding": []any{Doc{"code": typ}}}},
				Doc{"url": fhir.PriceSubValue, "valueMoney": Doc{"value": p.Amount, "currency": "CHF"}},
				Doc{"url": fhir.PriceSubChangeDate, "valueDate": p.Date},
			},
		})
	}
	return Doc{
		"resourceType": fhir.TypeRegulatedAuthorization,
		"id":           id,
		"type":         Doc{"coding": []any{Doc{"code": code}}},
		"subject":      []any{Doc{"reference": subject}},
		"extension":    exts,
	}
}

// Retail is a retail price sample.
func Retail(amount float64, date string) Price { return Price{Retail: true, Amount: amount, Date: date} }

// ExFactory is an ex-factory price sample.
func ExFactory(amount float64, date string) Price { return Price{Amount: amount, Date: date} }

// Bundle wraps resources into a Bundle; an empty timestamp is omitted.
func Bundle(timestamp string, resources ...Doc) Doc {
	entries := make([]any, 0, len(resources))
	for _, r := range resources {
		entries = append(entries, Doc{"resource": r})
	}
	d := Doc{"resourceType": fhir.TypeBundle, "type": "collection", "entry": entries}
	if timestamp != "" {
		d["timestamp"] = timestamp
	}
	return d
}

// Line renders d as one compact JSON line.
func Line(d Doc) string {
	b, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// NDJSON renders docs one per line.
func NDJSON(docs ...Doc) string {
	lines := make([]string, len(docs))
	for i, d := range docs {
		lines[i] = Line(d)
	}
	return strings.Join(lines, "\n") + "\n"
}

// Decode renders and re-reads d as a typed bundle.
func Decode(d Doc) fhir.Bundle {
	b, err := fhir.DecodeBundle([]byte(Line(d)))
	if err != nil {
		panic(err)
	}
	return b
}

// Key is the resource key of a product id.
func Key(id string) string { return fhir.TypePackagedProductDefinition + "/" + id }
