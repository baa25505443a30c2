// Package main provides the sl-diff CLI that compares two FOPH
// Spezialitätenliste FHIR exports and writes a categorized change report.
//
// Usage:
//   - Full report : sl-diff [flags] <old.ndjson> <new.ndjson>
//   - One category: sl-diff -only <category> [flags] <old.ndjson> <new.ndjson>
//
// The full report is written to <out>/diff_<old>-<new>.json, where <old> and
// <new> are the snapshot dates taken from the file names (dd.mm.yyyy) or the
// file modification dates. In category mode only the gtins of that category
// are printed to stdout, one per line, and no file is written.
//
// Exit codes: 0 success, 1 run failure (unreadable input, LoadError,
// inconsistent report, write error), 2 usage error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"sl-diff/internal/asof"
	"sl-diff/internal/bundle"
	"sl-diff/internal/changes"
	"sl-diff/internal/config"
	"sl-diff/internal/diff"
	"sl-diff/internal/fileutil"
	"sl-diff/internal/obs"
	"sl-diff/internal/snapshot"
	"sl-diff/internal/textutil"
	"sl-diff/internal/validate"
)

// Options is the parsed command line.
type Options struct {
	oldPath    string
	newPath    string
	only       string
	category   changes.Category
	configPath string
	outDir     string
	patchPath  string
	workers    int
	chunkSize  int
	logLevel   string

	// set records which flags were given explicitly, so they override the
	// config file and environment only when present.
	set map[string]bool
}

var errUsage = errors.New("usage")

func usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(w, "Usage:\n")
		fmt.Fprintf(w, "  REPORT   : %s [flags] <old.ndjson> <new.ndjson>\n", name)
		fmt.Fprintf(w, "  CATEGORY : %s -only <category> [flags] <old.ndjson> <new.ndjson>\n", name)
		fmt.Fprintf(w, "\nCategories: %s\n", changes.CategoryNames())
		fmt.Fprintln(w, "\nFlags:")
		fs.PrintDefaults()
	}
}

// parseFlags parses args (without the program name). Errors wrap errUsage.
func parseFlags(args []string, stderr io.Writer) (Options, error) {
	var o Options
	fs := flag.NewFlagSet("sl-diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)

	fs.StringVar(&o.only, "only", "", "print only the gtins of one category, one per line (no report file)")
	fs.StringVar(&o.configPath, "config", "", "optional YAML config file")
	fs.StringVar(&o.outDir, "out", "", "output directory for the report (default from config: ndjson)")
	fs.StringVar(&o.patchPath, "patch", "", "also write a unified diff of the old/new package listings to this file")
	fs.IntVar(&o.workers, "workers", 0, "concurrent bundle extraction workers per snapshot (0 = GOMAXPROCS)")
	fs.IntVar(&o.chunkSize, "chunk-size", 0, "bundles per worker task (0 = bundles/workers)")
	fs.StringVar(&o.logLevel, "log-level", "", "debug|info|warn|error (default from config: info)")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w: %w", errUsage, err)
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.set["only"] {
		c, err := changes.ParseCategory(o.only)
		if err != nil {
			fmt.Fprintf(stderr, "Unknown category %q.\nValid: %s\n", o.only, changes.CategoryNames())
			return Options{}, fmt.Errorf("%w: %w", errUsage, err)
		}
		o.category = c
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return Options{}, fmt.Errorf("%w: expected <old> and <new> snapshot files, got %d arguments", errUsage, fs.NArg())
	}
	o.oldPath, o.newPath = fs.Arg(0), fs.Arg(1)
	return o, nil
}

// resolveConfig layers the explicit flags over config file and environment.
func resolveConfig(o Options) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.set["out"] {
		cfg.OutDir = o.outDir
	}
	if o.set["workers"] {
		cfg.Workers = o.workers
	}
	if o.set["chunk-size"] {
		cfg.ChunkSize = o.chunkSize
	}
	if o.set["log-level"] {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "ERROR:", err)
		}
		return 2
	}
	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, "ERROR:", err)
		return 2
	}
	obs.InitLogger(stderr, cfg.LogLevel)

	if err := execute(ctx, opts, cfg, stdout); err != nil {
		obs.Logger.Error("run_failed", "error", err)
		fmt.Fprintln(stderr, "ERROR:", err)
		return 1
	}
	return 0
}

// side is one resolved snapshot.
type side struct {
	label    string
	date     asof.Date
	packages snapshot.PackageMap
}

func execute(ctx context.Context, opts Options, cfg config.Config, stdout io.Writer) error {
	oldFB, newFB := asof.FallbackFor(opts.oldPath), asof.FallbackFor(opts.newPath)
	obs.Logger.Info("snapshot_dates", "old", oldFB.Label("unknown"), "new", newFB.Label("unknown"))

	var old, cur side
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := loadSide(gctx, opts.oldPath, oldFB, "old", cfg)
		old = s
		return err
	})
	g.Go(func() error {
		s, err := loadSide(gctx, opts.newPath, newFB, "new", cfg)
		cur = s
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	obs.Logger.Info("packages_resolved", "old", len(old.packages), "new", len(cur.packages))

	res, err := changes.Compute(ctx, old.packages, cur.packages)
	if err != nil {
		return fmt.Errorf("compute changes: %w", err)
	}
	if err := validate.Report(res); err != nil {
		return fmt.Errorf("inconsistent report: %w", err)
	}

	if opts.category != "" {
		for _, gtin := range res.GTINs(opts.category) {
			fmt.Fprintln(stdout, gtin)
		}
		return nil
	}

	body, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	outPath := filepath.Join(cfg.OutDir, fmt.Sprintf("diff_%s-%s.json", old.label, cur.label))
	if err := fileutil.WriteAtomic(outPath, textutil.EnsureTrailingLF(body)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if opts.patchPath != "" {
		if err := writePatch(opts.patchPath, old, cur, cfg); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Diff written to %s\n", outPath)
	printSummary(stdout, res)
	return nil
}

// loadSide reads, dates and resolves one snapshot file. A LoadError aborts
// the whole run.
func loadSide(ctx context.Context, path string, fb asof.Fallback, def string, cfg config.Config) (side, error) {
	bundles, err := bundle.LoadFile(path)
	if err != nil {
		return side{}, err
	}
	fallback := fb.Date
	if fallback.IsZero() {
		fallback = asof.FromTime(time.Now())
	}
	date, fromBundles := asof.Resolve(bundles, fallback)
	if fromBundles {
		obs.Logger.Info("effective_date", "snapshot", def, "date", date.String(), "source", "bundles")
	} else {
		obs.Logger.Info("effective_date", "snapshot", def, "date", date.String(), "source", "fallback")
	}

	pkgs, st, err := snapshot.Build(ctx, bundles, date, snapshot.Options{
		Workers:   cfg.Workers,
		ChunkSize: cfg.ChunkSize,
	})
	if err != nil {
		return side{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	obs.Logger.Debug("snapshot_built", "snapshot", def, "chunks", st.Chunks, "packages", len(pkgs))
	return side{label: fb.Label(def), date: date, packages: pkgs}, nil
}

func writePatch(path string, old, cur side, cfg config.Config) error {
	body, oversize := diff.Unified(
		"old/"+old.label, "new/"+cur.label,
		[]byte(snapshot.Listing(old.packages)), []byte(snapshot.Listing(cur.packages)),
		diff.Options{MaxBytes: cfg.PatchMaxBytes},
	)
	if oversize {
		obs.Logger.Warn("patch_oversize", "max_bytes", cfg.PatchMaxBytes)
	}
	if err := fileutil.WriteAtomic(path, textutil.EnsureTrailingLF([]byte(body))); err != nil {
		return fmt.Errorf("write patch: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, res *changes.Result) {
	for _, c := range res.Counts() {
		code := c.Flags[len(c.Flags)-1]
		fmt.Fprintf(w, "  flag %2d %-18s %d\n", int(code), string(c.Category)+":", c.N)
	}
}
