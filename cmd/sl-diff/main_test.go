package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sl-diff/internal/changes"
	"sl-diff/internal/fhirtest"
)

const (
	gtinA = "7680000000011"
	gtinB = "7680000000028"
	gtinC = "7680000000035"
)

func TestParseFlagsBasic(t *testing.T) {
	args := []string{"-only", "retail_up", "-out", "reports", "-workers", "3", "-chunk-size", "10", "old.ndjson", "new.ndjson"}
	o, err := parseFlags(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if o.category != changes.CatRetailUp {
		t.Fatalf("category got %q", o.category)
	}
	if o.outDir != "reports" || o.workers != 3 || o.chunkSize != 10 {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.oldPath != "old.ndjson" || o.newPath != "new.ndjson" {
		t.Fatalf("paths got %q %q", o.oldPath, o.newPath)
	}
	if !o.set["out"] || o.set["log-level"] {
		t.Fatalf("set flags got %v", o.set)
	}
}

func TestParseFlagsAlias(t *testing.T) {
	o, err := parseFlags([]string{"-only", "--price_cut_exfactory", "a", "b"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if o.category != changes.CatExFactoryDown {
		t.Fatalf("category got %q", o.category)
	}
}

func TestParseFlagsMissingSnapshot(t *testing.T) {
	if _, err := parseFlags([]string{"old.ndjson"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for missing <new>")
	}
}

func TestParseFlagsUnknownCategory(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-only", "bogus", "a", "b"}, &stderr)
	if err == nil {
		t.Fatalf("expected error for unknown category")
	}
	if !strings.Contains(stderr.String(), "retail_up") {
		t.Fatalf("usage should list valid categories, got %q", stderr.String())
	}
}

func TestResolveConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SLDIFF_WORKERS", "7")
	t.Setenv("SLDIFF_OUT_DIR", "from-env")
	o, err := parseFlags([]string{"-out", "from-flag", "a", "b"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	cfg, err := resolveConfig(o)
	if err != nil {
		t.Fatalf("resolveConfig error: %v", err)
	}
	if cfg.OutDir != "from-flag" {
		t.Fatalf("OutDir got %q", cfg.OutDir)
	}
	if cfg.Workers != 7 {
		t.Fatalf("Workers got %d", cfg.Workers)
	}
}

// writeSnapshots writes an old/new pair named after their snapshot dates.
func writeSnapshots(t *testing.T) (dir, oldPath, newPath string) {
	t.Helper()
	dir = t.TempDir()
	old := fhirtest.NDJSON(
		fhirtest.Bundle("2026-01-06T08:00:00Z",
			fhirtest.Product("a", gtinA, "Alpha 10 mg"),
			fhirtest.Authorization("ra", fhirtest.Key("a"), true, fhirtest.Retail(10, "2025-12-01")),
		),
		fhirtest.Bundle("2026-01-06T08:00:00Z",
			fhirtest.Product("b", gtinB, "Beta 5 mg"),
			fhirtest.Authorization("rb", fhirtest.Key("b"), true, fhirtest.ExFactory(4, "2025-11-01")),
		),
	)
	cur := fhirtest.NDJSON(
		fhirtest.Bundle("2026-01-13T08:00:00Z",
			fhirtest.Product("a", gtinA, "Alpha 10 mg"),
			fhirtest.Authorization("ra", fhirtest.Key("a"), true,
				fhirtest.Retail(10, "2025-12-01"), fhirtest.Retail(12.5, "2026-01-10")),
		),
		fhirtest.Bundle("2026-01-13T08:00:00Z",
			fhirtest.Product("c", gtinC, "Gamma 1 g"),
			fhirtest.Authorization("rc", fhirtest.Key("c"), true, fhirtest.Retail(20, "2026-01-02")),
		),
	)
	oldPath = filepath.Join(dir, "sl_06.01.2026.ndjson")
	newPath = filepath.Join(dir, "sl_13.01.2026.ndjson")
	if err := os.WriteFile(oldPath, []byte(old), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newPath, []byte(cur), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, oldPath, newPath
}

func TestRunWritesReport(t *testing.T) {
	dir, oldPath, newPath := writeSnapshots(t)
	out := filepath.Join(dir, "out")
	patch := filepath.Join(dir, "listing.patch")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-out", out, "-patch", patch, oldPath, newPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	body, err := os.ReadFile(filepath.Join(out, "diff_06.01.2026-13.01.2026.json"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	gtins := func(key string) []string {
		var recs []struct {
			GTIN string `json:"gtin"`
		}
		if err := json.Unmarshal(doc[key], &recs); err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		out := []string{}
		for _, r := range recs {
			out = append(out, r.GTIN)
		}
		return out
	}
	if got := gtins("new"); !reflect.DeepEqual(got, []string{gtinC}) {
		t.Fatalf("new got %v", got)
	}
	if got := gtins("del"); !reflect.DeepEqual(got, []string{gtinB}) {
		t.Fatalf("del got %v", got)
	}
	if got := gtins("retail_up"); !reflect.DeepEqual(got, []string{gtinA}) {
		t.Fatalf("retail_up got %v", got)
	}
	if got := gtins("name_base"); len(got) != 0 {
		t.Fatalf("name_base got %v", got)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{\n  \"_flag_legend\"")) {
		t.Fatalf("legend should lead the report, got %.60q", body)
	}

	p, err := os.ReadFile(patch)
	if err != nil {
		t.Fatalf("patch not written: %v", err)
	}
	if !strings.Contains(string(p), "-"+gtinB) || !strings.Contains(string(p), "+"+gtinC) {
		t.Fatalf("patch missing listing changes:\n%s", p)
	}
	if !strings.Contains(stdout.String(), "retail_up:") {
		t.Fatalf("summary missing, stdout: %s", stdout.String())
	}
}

func TestRunFilterMode(t *testing.T) {
	dir, oldPath, newPath := writeSnapshots(t)
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-only", "price_rise_retail", "-out", out, oldPath, newPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if got := stdout.String(); got != gtinA+"\n" {
		t.Fatalf("stdout got %q", got)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("filter mode must not write a report, stat err=%v", err)
	}
}

func TestRunUnknownCategoryWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	// The snapshot files do not exist: the category is rejected before loading.
	code := run(context.Background(), []string{"-only", "bogus", "-out", out, "missing-old", "missing-new"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code got %d, want 2", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout should be empty, got %q", stdout.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("nothing should be written, stat err=%v", err)
	}
}

func TestRunLoadErrorAborts(t *testing.T) {
	dir, oldPath, _ := writeSnapshots(t)
	broken := filepath.Join(dir, "sl_20.01.2026.ndjson")
	if err := os.WriteFile(broken, []byte("not json at all\n{\"resourceType\":\"Patient\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-out", out, oldPath, broken}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code got %d, want 1", code)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no report expected after a load error, stat err=%v", err)
	}
}
