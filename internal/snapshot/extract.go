package snapshot

import (
	"strings"

	"sl-diff/internal/asof"
	"sl-diff/internal/fhir"
)

// bundleIndex is the resource graph of one bundle. It is built per bundle and
// dropped once the bundle is extracted; nothing links across bundles.
type bundleIndex struct {
	byKey    map[string]fhir.Resource
	order    []string                   // keys in first-seen entry order
	slBySubj map[string][]fhir.Resource // SL authorizations by subject key, entry order
}

func indexBundle(b fhir.Bundle) bundleIndex {
	ix := bundleIndex{
		byKey:    make(map[string]fhir.Resource, len(b.Entry)),
		slBySubj: make(map[string][]fhir.Resource),
	}
	for _, e := range b.Entry {
		if len(e.Resource) == 0 {
			continue
		}
		r, err := fhir.DecodeResource(e.Resource)
		if err != nil {
			continue
		}
		key, ok := r.Key()
		if !ok {
			continue
		}
		if _, seen := ix.byKey[key]; !seen {
			ix.order = append(ix.order, key)
		}
		ix.byKey[key] = r
	}
	for _, key := range ix.order {
		r := ix.byKey[key]
		if r.ResourceType != fhir.TypeRegulatedAuthorization || !r.Type.HasCode(fhir.CodeSLEntry) {
			continue
		}
		subj := r.Subject.First()
		ix.slBySubj[subj] = append(ix.slBySubj[subj], r)
	}
	return ix
}

// Extract resolves every product definition of b into a Package, with prices
// effective as of ref. Products without a qualifying GTIN, and products with
// neither price nor SL listing, are left out.
func Extract(b fhir.Bundle, ref asof.Date) PackageMap {
	ix := indexBundle(b)
	out := make(PackageMap)
	for _, key := range ix.order {
		r := ix.byKey[key]
		if r.ResourceType != fhir.TypePackagedProductDefinition {
			continue
		}
		gtin, ok := productGTIN(r)
		if !ok {
			continue
		}
		p := Package{GTIN: gtin, Name: productName(r)}
		series := map[PriceType]PriceSeries{Retail: {}, ExFactory: {}}
		for _, auth := range ix.slBySubj[key] {
			p.HasSLEntry = true
			collectPrices(auth, series)
		}
		p.RetailPrice = series[Retail].EffectiveAt(ref)
		p.ExFactoryPrice = series[ExFactory].EffectiveAt(ref)
		if p.retained() {
			out[gtin] = p
		}
	}
	return out
}

// productGTIN returns the first packaging identifier under the GTIN system
// that is a Swiss pharma GTIN.
func productGTIN(r fhir.Resource) (string, bool) {
	for _, id := range r.Packaging.Identifier {
		if string(id.System) == fhir.GTINSystem && fhir.IsGTIN(string(id.Value)) {
			return string(id.Value), true
		}
	}
	return "", false
}

func productName(r fhir.Resource) string {
	switch {
	case r.Description != "":
		return string(r.Description)
	case r.Text.Div != "":
		return string(r.Text.Div)
	default:
		return UnknownName
	}
}

// collectPrices adds the productPrice extensions of auth to series. A sample
// needs a known type code, a positive amount and a parseable change date;
// anything else drops that sample only.
func collectPrices(auth fhir.Resource, series map[PriceType]PriceSeries) {
	for _, ext := range auth.Extension {
		if !strings.Contains(string(ext.URL), fhir.PriceExtensionMarker) {
			continue
		}
		var (
			code   string
			amount float64
			date   string
		)
		for _, sub := range ext.Extension {
			switch string(sub.URL) {
			case fhir.PriceSubType:
				code = sub.ValueCodeableConcept.FirstCode()
			case fhir.PriceSubValue:
				amount = float64(sub.ValueMoney.Value)
			case fhir.PriceSubChangeDate:
				date = string(sub.ValueDate)
			}
		}
		pt, ok := priceTypeOf(code)
		if !ok || amount <= 0 {
			continue
		}
		day, ok := asof.ParseDate(date)
		if !ok {
			continue
		}
		series[pt].Set(day, amount)
	}
}

func priceTypeOf(code string) (PriceType, bool) {
	switch code {
	case fhir.CodeRetailPrice:
		return Retail, true
	case fhir.CodeExFactoryPrice:
		return ExFactory, true
	default:
		return "", false
	}
}
