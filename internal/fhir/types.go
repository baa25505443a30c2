// Package fhir defines the subset of the FHIR R5 document model read from the
// FOPH Spezialitätenliste export: Bundles, PackagedProductDefinition and
// RegulatedAuthorization resources.
//
// Decoding is lenient by construction. The export is loosely structured, so a
// leaf or list element of an unexpected JSON kind decodes to its zero value
// instead of failing the enclosing document. Resources inside a bundle are kept
// raw and decoded one at a time (see DecodeResource) so that a broken resource
// only drops itself.
package fhir

import "encoding/json"

// Bundle is a FHIR container holding an array of typed resource entries.
type Bundle struct {
	ResourceType Text    `json:"resourceType"`
	ID           Text    `json:"id"`
	Timestamp    Text    `json:"timestamp"`
	Meta         Meta    `json:"meta"`
	Entry        Entries `json:"entry"`
}

// IsBundle reports whether the decoded document declares itself a Bundle.
func (b Bundle) IsBundle() bool { return b.ResourceType == TypeBundle }

// Stamp returns the bundle timestamp, falling back to meta.lastUpdated.
func (b Bundle) Stamp() string {
	if b.Timestamp != "" {
		return string(b.Timestamp)
	}
	return string(b.Meta.LastUpdated)
}

// Meta carries resource metadata; only lastUpdated is read.
type Meta struct {
	LastUpdated Text `json:"lastUpdated"`
}

// Entry wraps one resource. The resource is decoded on demand.
type Entry struct {
	FullURL  Text            `json:"fullUrl"`
	Resource json.RawMessage `json:"resource"`
}

// Resource is the union of the fields read from the two consumed resource
// types. Fields that do not apply to a given type stay empty.
type Resource struct {
	ResourceType Text       `json:"resourceType"`
	ID           Text       `json:"id"`
	Description  Text       `json:"description"`
	Text         Narrative  `json:"text"`
	Packaging    Packaging  `json:"packaging"`
	Type         Concept    `json:"type"`
	Subject      References `json:"subject"`
	Extension    Extensions `json:"extension"`
}

// Key returns the bundle-local "{type}/{id}" key and false when either half
// is missing.
func (r Resource) Key() (string, bool) {
	return ResourceKey(string(r.ResourceType), string(r.ID))
}

// Narrative is the rendered XHTML summary of a resource.
type Narrative struct {
	Div Text `json:"div"`
}

// Packaging holds the package identifiers of a PackagedProductDefinition.
type Packaging struct {
	Identifier Identifiers `json:"identifier"`
}

// Identifier is a (system, value) pair.
type Identifier struct {
	System Text `json:"system"`
	Value  Text `json:"value"`
}

// Concept is a CodeableConcept.
type Concept struct {
	Coding Codings `json:"coding"`
	Text   Text    `json:"text"`
}

// HasCode reports whether any coding carries code.
func (c Concept) HasCode(code string) bool {
	for _, cd := range c.Coding {
		if string(cd.Code) == code {
			return true
		}
	}
	return false
}

// FirstCode returns the code of the first coding, or "".
func (c Concept) FirstCode() string {
	if len(c.Coding) == 0 {
		return ""
	}
	return string(c.Coding[0].Code)
}

// Coding is a single terminology code.
type Coding struct {
	System Text `json:"system"`
	Code   Text `json:"code"`
}

// Reference points at another resource by "{type}/{id}".
type Reference struct {
	Reference Text `json:"reference"`
}

// Money is a monetary amount. The currency is always CHF in this export.
type Money struct {
	Value    Number `json:"value"`
	Currency Text   `json:"currency"`
}

// Extension is a FHIR extension; price data is carried as an extension with
// nested sub-extensions named by url.
type Extension struct {
	URL                  Text       `json:"url"`
	Extension            Extensions `json:"extension"`
	ValueCodeableConcept Concept    `json:"valueCodeableConcept"`
	ValueMoney           Money      `json:"valueMoney"`
	ValueDate            Text       `json:"valueDate"`
}

// ResourceKey builds the bundle-local key linking a reference to its target.
func ResourceKey(resourceType, id string) (string, bool) {
	if resourceType == "" || id == "" {
		return "", false
	}
	return resourceType + "/" + id, true
}

// DecodeBundle parses one JSON document. The document may parse and still
// not be a bundle; callers check IsBundle.
func DecodeBundle(data []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// DecodeResource parses the raw resource of an entry.
func DecodeResource(raw json.RawMessage) (Resource, error) {
	var r Resource
	if err := json.Unmarshal(raw, &r); err != nil {
		return Resource{}, err
	}
	return r, nil
}
