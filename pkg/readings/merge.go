package readings

import "sort"

// Merge combines readings from any number of sources into one
// deduplicated view. First occurrence in input order wins per dedupe
// key, so callers put the authoritative source first. Output is sorted
// descending by timestamp for tabular display. Pure function: merging
// the same inputs twice yields the same result.
func Merge(sources ...[]Reading) []Reading {
	seen := make(map[string]struct{})
	var merged []Reading
	for _, src := range sources {
		for _, r := range src {
			// An entry is a duplicate when its own key was already
			// seen. Entries with a persistent id are judged by that id
			// (two distinct documents never collapse) but register
			// their fallback key too, so an id-less live twin arriving
			// later is caught.
			if _, dup := seen[r.DedupeKey()]; dup {
				continue
			}
			for _, key := range r.DedupeKeys() {
				seen[key] = struct{}{}
			}
			merged = append(merged, r)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	return merged
}

// ChartSeries returns the most recent n entries of a Merge result in
// ascending timestamp order, the shape chart axes want.
func ChartSeries(merged []Reading, n int) []Reading {
	if n > len(merged) {
		n = len(merged)
	}
	series := make([]Reading, n)
	// merged is descending, so the first n entries reversed are the
	// latest n ascending.
	for i := 0; i < n; i++ {
		series[n-1-i] = merged[i]
	}
	return series
}
