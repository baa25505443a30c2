package snapshot

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sl-diff/internal/asof"
	"sl-diff/internal/fhir"
	"sl-diff/internal/obs"
	"sl-diff/internal/sortutil"
)

// Options controls how bundles are spread over workers.
type Options struct {
	// Workers bounds concurrent chunk extraction. 0 means GOMAXPROCS.
	Workers int
	// ChunkSize is the number of bundles per chunk. 0 means len/Workers.
	ChunkSize int
}

// BuildStats reports how a PackageMap was assembled.
type BuildStats struct {
	Chunks int
	// Collisions lists GTINs declared by more than one bundle, once per
	// extra declaration. The merge keeps the later bundle's record.
	Collisions []string
	// Conflicts is the subset of Collisions whose records differed.
	Conflicts []string
}

// Build extracts all bundles with prices effective as of ref. Bundles are cut
// into chunks, each chunk is extracted into its own PackageMap by a worker,
// and the maps are unioned by GTIN in chunk order.
//
// A GTIN is expected to appear in one bundle only. Collisions are merged last
// write wins and reported in BuildStats and the log, whether they occur
// inside a chunk or across chunks.
func Build(ctx context.Context, bundles []fhir.Bundle, ref asof.Date, opt Options) (PackageMap, BuildStats, error) {
	chunks := chunk(bundles, opt)
	parts := make([]chunkResult, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(opt))
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			res := chunkResult{pkgs: make(PackageMap)}
			for _, b := range c {
				if err := gctx.Err(); err != nil {
					return err
				}
				res.add(res.pkgs.Merge(Extract(b, ref)))
			}
			parts[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, BuildStats{}, err
	}

	var all chunkResult
	out := make(PackageMap)
	for _, part := range parts {
		all.add(part.dup, part.conflict)
		all.add(out.Merge(part.pkgs))
	}
	st := BuildStats{Chunks: len(chunks), Collisions: all.dup, Conflicts: all.conflict}
	if len(st.Collisions) > 0 {
		obs.Logger.Warn("gtin_collision",
			"collisions", len(st.Collisions),
			"conflicting", len(st.Conflicts),
			"sample", sample(st.Conflicts, st.Collisions),
		)
	}
	return out, st, nil
}

func workers(opt Options) int {
	if opt.Workers > 0 {
		return opt.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func chunk(bundles []fhir.Bundle, opt Options) [][]fhir.Bundle {
	size := opt.ChunkSize
	if size <= 0 {
		size = len(bundles) / workers(opt)
	}
	if size < 1 {
		size = 1
	}
	var out [][]fhir.Bundle
	for start := 0; start < len(bundles); start += size {
		end := min(start+size, len(bundles))
		out = append(out, bundles[start:end])
	}
	return out
}

// chunkResult is the extraction of one chunk with the collisions seen while
// merging its bundles.
type chunkResult struct {
	pkgs     PackageMap
	dup      []string
	conflict []string
}

func (r *chunkResult) add(dup, conflict []string) {
	r.dup = append(r.dup, dup...)
	r.conflict = append(r.conflict, conflict...)
}

// sample returns up to five GTINs for the log in order, preferring
// conflicting ones.
func sample(conflicts, collisions []string) []string {
	src := conflicts
	if len(src) == 0 {
		src = collisions
	}
	src = sortutil.SortedCopy(src)
	return src[:min(len(src), 5)]
}
