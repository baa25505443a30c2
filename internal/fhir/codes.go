package fhir

// Resource type discriminators.
const (
	TypeBundle                    = "Bundle"
	TypePackagedProductDefinition = "PackagedProductDefinition"
	TypeRegulatedAuthorization    = "RegulatedAuthorization"
)

// GTIN identification inside packaging.identifier.
const (
	GTINSystem = "urn:oid:2.51.1.1"
	GTINPrefix = "7680"
	GTINLength = 13
)

// Codes used by the FOPH export.
const (
	// CodeSLEntry marks a RegulatedAuthorization as a Spezialitätenliste listing.
	CodeSLEntry = "756000002003"

	CodeRetailPrice    = "756002005001"
	CodeExFactoryPrice = "756002005002"
)

// Price extension layout: an extension whose url contains PriceExtensionMarker,
// with sub-extensions "type", "value" and "changeDate".
const (
	PriceExtensionMarker = "productPrice"

	PriceSubType       = "type"
	PriceSubValue      = "value"
	PriceSubChangeDate = "changeDate"
)

// IsGTIN reports whether v is a 13-digit GTIN with the Swiss pharma prefix.
func IsGTIN(v string) bool {
	if len(v) != GTINLength || v[:len(GTINPrefix)] != GTINPrefix {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
