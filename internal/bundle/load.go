// Package bundle reads a snapshot file into its sequence of FHIR bundles.
//
// The export is newline-delimited JSON, one Bundle per line. Lines that do
// not parse, or parse into something other than a Bundle, are skipped. When a
// file yields no bundle at all that way (documents concatenated without
// separators, or pretty-printed across lines), a second pass joins the text
// into one line and splits it into top-level JSON objects by brace depth.
// A file that neither pass can read is a LoadError.
package bundle

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"sl-diff/internal/fhir"
	"sl-diff/internal/obs"
	"sl-diff/internal/textutil"
)

// LoadError reports a snapshot that yielded zero bundles after both passes.
type LoadError struct {
	Path string
	Size int
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("no valid FHIR bundles in input (%d bytes)", e.Size)
	}
	return fmt.Sprintf("no valid FHIR bundles in %s (%d bytes)", e.Path, e.Size)
}

// Stats describes how a snapshot was read.
type Stats struct {
	Bundles  int
	Skipped  int  // lines or spans that were not bundles
	Fallback bool // bundles came from the object-splitting pass
}

// Parse extracts every bundle from data without failing. See the package
// comment for the two passes.
func Parse(data []byte) ([]fhir.Bundle, Stats) {
	var st Stats
	bundles := parseLines(data, &st)
	if len(bundles) == 0 {
		st = Stats{Fallback: true}
		bundles = parseObjects(textutil.StripLineBreaks(data), &st)
	}
	st.Bundles = len(bundles)
	return bundles, st
}

// Load is Parse with the fatal zero-bundle check.
func Load(data []byte) ([]fhir.Bundle, error) {
	bundles, _ := Parse(data)
	if len(bundles) == 0 {
		return nil, &LoadError{Size: len(data)}
	}
	return bundles, nil
}

// LoadFile reads the snapshot at path completely and parses it.
func LoadFile(path string) ([]fhir.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	data, err := textutil.DecodeUTF8(f)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	bundles, st := Parse(data)
	if len(bundles) == 0 {
		return nil, &LoadError{Path: path, Size: len(data)}
	}
	obs.Logger.Info("bundles_loaded",
		"file", path,
		"size", humanize.Bytes(uint64(len(data))),
		"bundles", st.Bundles,
		"skipped", st.Skipped,
		"fallback", st.Fallback,
		"packages", CountGTINs(bundles),
	)
	return bundles, nil
}

func parseLines(data []byte, st *Stats) []fhir.Bundle {
	var out []fhir.Bundle
	for _, line := range bytes.Split(textutil.NormalizeLF(data), []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if b, ok := decode(line); ok {
			out = append(out, b)
			continue
		}
		st.Skipped++
	}
	return out
}

func parseObjects(data []byte, st *Stats) []fhir.Bundle {
	var out []fhir.Bundle
	for _, span := range SplitObjects(data) {
		if b, ok := decode(span); ok {
			out = append(out, b)
			continue
		}
		st.Skipped++
	}
	return out
}

func decode(doc []byte) (fhir.Bundle, bool) {
	b, err := fhir.DecodeBundle(doc)
	if err != nil || !b.IsBundle() {
		return fhir.Bundle{}, false
	}
	return b, true
}

// CountGTINs counts the distinct GTINs declared by product definitions across
// bundles. Only used for reporting.
func CountGTINs(bundles []fhir.Bundle) int {
	seen := make(map[string]struct{})
	for _, b := range bundles {
		for _, e := range b.Entry {
			r, err := fhir.DecodeResource(e.Resource)
			if err != nil || r.ResourceType != fhir.TypePackagedProductDefinition {
				continue
			}
			for _, id := range r.Packaging.Identifier {
				if string(id.System) == fhir.GTINSystem && fhir.IsGTIN(string(id.Value)) {
					seen[string(id.Value)] = struct{}{}
				}
			}
		}
	}
	return len(seen)
}
