package locations

import (
	"sort"
	"strings"
)

// Build partitions merged batches into the requested tab and applies the
// filter. Counts are taken after filtering, before the tab is chosen.
func Build(batches []BatchData, f Filter) Listing {
	tab := f.Tab
	if tab != TabUnlocated && tab != TabAll {
		tab = TabLocated
	}

	listing := Listing{Tab: tab, Batches: []BatchData{}}
	shelves := map[string]struct{}{}
	bins := map[string]struct{}{}
	for _, b := range batches {
		if b.Shelf != nil {
			shelves[*b.Shelf] = struct{}{}
		}
		if b.Bin != nil {
			bins[*b.Bin] = struct{}{}
		}
		if !f.Matches(b) {
			continue
		}
		located := b.Located()
		if located {
			listing.Located++
		} else {
			listing.Unlocated++
		}
		if tab == TabAll || (tab == TabLocated) == located {
			listing.Batches = append(listing.Batches, b)
		}
	}
	listing.Shelves = sortedKeys(shelves)
	listing.Bins = sortedKeys(bins)
	return listing
}

// Partition splits batches into located and unlocated, preserving order.
func Partition(batches []BatchData) (located, unlocated []BatchData) {
	located, unlocated = []BatchData{}, []BatchData{}
	for _, b := range batches {
		if b.Located() {
			located = append(located, b)
		} else {
			unlocated = append(unlocated, b)
		}
	}
	return located, unlocated
}

func (f Filter) Matches(b BatchData) bool {
	if f.HasLocation != nil && *f.HasLocation != b.Located() {
		return false
	}
	if f.Shelf != "" && (b.Shelf == nil || !strings.EqualFold(*b.Shelf, strings.TrimSpace(f.Shelf))) {
		return false
	}
	if f.Bin != "" && (b.Bin == nil || !strings.EqualFold(*b.Bin, strings.TrimSpace(f.Bin))) {
		return false
	}
	if f.BatchNumber != "" && !containsFold(b.BatchNumber, f.BatchNumber) {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		fields := []string{b.ProductName, b.ProductNumber, b.BatchNumber, b.SupplierName, b.OrderNumber}
		if b.Location != nil {
			fields = append(fields, *b.Location)
		}
		for _, field := range fields {
			if containsFold(field, q) {
				return true
			}
		}
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
