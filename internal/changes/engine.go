package changes

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"sl-diff/internal/snapshot"
)

// Compute classifies the differences between two snapshots. The categories
// are independent of each other and are computed concurrently; every
// category is ordered by gtin.
//
// Classification per gtin:
//   - only in new: new; only in old: del (and nothing else)
//   - in both: any of sl_entry / sl_entry_delete, name_base, and for each
//     price type at most one of up / down
func Compute(ctx context.Context, old, cur snapshot.PackageMap) (*Result, error) {
	res := newResult()
	oldKeys, curKeys := old.GTINs(), cur.GTINs()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.New = classifyAdded(old, cur, curKeys)
		return gctx.Err()
	})
	g.Go(func() error {
		res.Del = classifyRemoved(old, cur, oldKeys)
		return gctx.Err()
	})
	g.Go(func() error {
		res.SLEntry, res.SLEntryDelete = classifyListing(old, cur, curKeys)
		return gctx.Err()
	})
	g.Go(func() error {
		res.NameBase = classifyNames(old, cur, curKeys)
		return gctx.Err()
	})
	g.Go(func() error {
		res.RetailUp, res.RetailDown = classifyPrices(old, cur, curKeys, snapshot.Retail)
		return gctx.Err()
	})
	g.Go(func() error {
		res.ExFactoryUp, res.ExFactoryDown = classifyPrices(old, cur, curKeys, snapshot.ExFactory)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func packageRecord(p snapshot.Package, c Category) PackageRecord {
	return PackageRecord{
		Base:           Base{GTIN: p.GTIN, Name: p.Name, Flags: c.Flags()},
		RetailPrice:    nullable(p.RetailPrice),
		ExFactoryPrice: nullable(p.ExFactoryPrice),
	}
}

func classifyAdded(old, cur snapshot.PackageMap, keys []string) []PackageRecord {
	out := make([]PackageRecord, 0)
	for _, gtin := range keys {
		if _, ok := old[gtin]; !ok {
			out = append(out, packageRecord(cur[gtin], CatNew))
		}
	}
	return out
}

func classifyRemoved(old, cur snapshot.PackageMap, keys []string) []PackageRecord {
	out := make([]PackageRecord, 0)
	for _, gtin := range keys {
		if _, ok := cur[gtin]; !ok {
			out = append(out, packageRecord(old[gtin], CatDel))
		}
	}
	return out
}

func classifyListing(old, cur snapshot.PackageMap, keys []string) (added, removed []Base) {
	added, removed = make([]Base, 0), make([]Base, 0)
	for _, gtin := range keys {
		o, ok := old[gtin]
		if !ok {
			continue
		}
		n := cur[gtin]
		switch {
		case !o.HasSLEntry && n.HasSLEntry:
			added = append(added, Base{GTIN: gtin, Name: n.Name, Flags: CatSLEntry.Flags()})
		case o.HasSLEntry && !n.HasSLEntry:
			removed = append(removed, Base{GTIN: gtin, Name: n.Name, Flags: CatSLEntryDelete.Flags()})
		}
	}
	return added, removed
}

func classifyNames(old, cur snapshot.PackageMap, keys []string) []NameRecord {
	out := make([]NameRecord, 0)
	for _, gtin := range keys {
		o, ok := old[gtin]
		if !ok {
			continue
		}
		n := cur[gtin]
		if o.Name == n.Name {
			continue
		}
		out = append(out, NameRecord{
			Base:    Base{GTIN: gtin, Name: n.Name, Flags: CatNameBase.Flags()},
			OldName: o.Name,
			NewName: n.Name,
		})
	}
	return out
}

func classifyPrices(old, cur snapshot.PackageMap, keys []string, pt snapshot.PriceType) (up, down []PriceRecord) {
	upCat, downCat := CatRetailUp, CatRetailDown
	if pt == snapshot.ExFactory {
		upCat, downCat = CatExFactoryUp, CatExFactoryDown
	}
	up, down = make([]PriceRecord, 0), make([]PriceRecord, 0)
	for _, gtin := range keys {
		o, ok := old[gtin]
		if !ok {
			continue
		}
		n := cur[gtin]
		op, np := o.Price(pt), n.Price(pt)
		diff := np - op
		if math.Abs(diff) <= PriceEpsilon {
			continue
		}
		cat := downCat
		if diff > 0 {
			cat = upCat
		}
		rec := PriceRecord{
			Base:       Base{GTIN: gtin, Name: n.Name, Flags: cat.Flags()},
			Type:       pt,
			OldPrice:   nullable(op),
			NewPrice:   nullable(np),
			Difference: diff,
		}
		if diff > 0 {
			up = append(up, rec)
		} else {
			down = append(down, rec)
		}
	}
	return up, down
}
