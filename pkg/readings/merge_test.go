package readings

import "testing"

func fp(v float64) *float64 { return &v }

func TestMergeDedupesFallbackKeyCollision(t *testing.T) {
	// A persisted entry and a live entry describing the same sample:
	// the live entry has no document id, so the persisted entry's
	// fallback key (source + truncated timestamp + values) must catch
	// it when tags match.
	historical := []Reading{
		{Source: SourceLiveFeed, DocID: "a1", Timestamp: 100_000, N: fp(10), P: fp(5), K: fp(8)},
	}
	live := []Reading{
		{Source: SourceLiveFeed, Timestamp: 100_000, N: fp(10), P: fp(5), K: fp(8)},
	}

	merged := Merge(historical, live)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(merged))
	}
	if merged[0].DocID != "a1" {
		t.Errorf("persisted entry should win, got %+v", merged[0])
	}
}

func TestMergeKeepsDistinctDocIDs(t *testing.T) {
	a := []Reading{{Source: SourcePaddyLog, DocID: "a1", Timestamp: 100_000, N: fp(10)}}
	b := []Reading{{Source: SourcePaddyLog, DocID: "a2", Timestamp: 100_000, N: fp(10)}}

	merged := Merge(a, b)
	if len(merged) != 2 {
		t.Fatalf("distinct doc ids must not collapse, got %d entries", len(merged))
	}
}

func TestMergeIdempotent(t *testing.T) {
	src := []Reading{
		{Source: SourcePaddyLog, DocID: "a1", Timestamp: 3000, N: fp(1)},
		{Source: SourcePaddyLog, DocID: "a2", Timestamp: 2000, N: fp(2)},
		{Source: SourceLiveFeed, Timestamp: 1000, N: fp(3), P: fp(4), K: fp(5)},
	}

	once := Merge(src)
	twice := Merge(once, src) // feed the output back in alongside the input

	if len(once) != len(src) || len(twice) != len(once) {
		t.Fatalf("merge not idempotent: %d -> %d -> %d", len(src), len(once), len(twice))
	}
}

func TestMergeOrdering(t *testing.T) {
	merged := Merge([]Reading{
		{Source: SourcePaddyLog, DocID: "a", Timestamp: 1000},
		{Source: SourcePaddyLog, DocID: "b", Timestamp: 3000},
		{Source: SourcePaddyLog, DocID: "c", Timestamp: 2000},
	})

	for i := 1; i < len(merged); i++ {
		if merged[i-1].Timestamp < merged[i].Timestamp {
			t.Fatalf("merged output not descending at index %d", i)
		}
	}

	series := ChartSeries(merged, 2)
	if len(series) != 2 {
		t.Fatalf("expected 2 chart entries, got %d", len(series))
	}
	if series[0].Timestamp != 2000 || series[1].Timestamp != 3000 {
		t.Errorf("chart series should be the latest entries ascending, got %d,%d",
			series[0].Timestamp, series[1].Timestamp)
	}
}

func TestMergeFirstSourceWins(t *testing.T) {
	persisted := []Reading{{Source: SourceLiveFeed, DocID: "", Timestamp: 50_000, N: fp(7), P: fp(2), K: fp(3)}}
	buffered := []Reading{{Source: SourceLiveFeed, Timestamp: 50_500, N: fp(7), P: fp(2), K: fp(3)}}

	// 50_000 and 50_500 truncate to the same second, so the keys
	// collide and the first (persisted) entry must survive.
	merged := Merge(persisted, buffered)
	if len(merged) != 1 {
		t.Fatalf("expected collision, got %d entries", len(merged))
	}
	if merged[0].Timestamp != 50_000 {
		t.Errorf("first occurrence should win, kept timestamp %d", merged[0].Timestamp)
	}
}
