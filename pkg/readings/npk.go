package readings

import "time"

// Device firmware has shipped the NPK block under several names over
// the years, and nutrient keys in several spellings. The extractor
// checks each known alias before giving up; an unrecognized shape is
// skipped, never a hard error.
var (
	blockAliases     = []string{"npk", "NPK", "sensorData", "readings"}
	nitrogenAliases  = []string{"nitrogen", "n", "N"}
	phosphorAliases  = []string{"phosphorus", "p", "P"}
	potassiumAliases = []string{"potassium", "k", "K"}
	timestampAliases = []string{"timestamp", "ts", "time"}
)

// ExtractNPK pulls a normalized reading out of a raw device record.
// It looks for a nested block under the legacy-compatible names first,
// then falls back to treating the record itself as flat. Returns
// ok=false when no nutrient value could be found under any alias.
func ExtractNPK(raw map[string]interface{}) (Reading, bool) {
	block := raw
	for _, name := range blockAliases {
		if nested, is := raw[name].(map[string]interface{}); is {
			block = nested
			break
		}
	}

	r := Reading{
		N: lookupNumber(block, nitrogenAliases),
		P: lookupNumber(block, phosphorAliases),
		K: lookupNumber(block, potassiumAliases),
	}
	if !r.HasNPK() {
		return Reading{}, false
	}

	if ts := lookupNumber(block, timestampAliases); ts != nil {
		if ms, valid := NormalizeTimestamp(int64(*ts)); valid {
			r.Timestamp = ms
		}
	}
	if r.Timestamp == 0 {
		if ts := lookupNumber(raw, timestampAliases); ts != nil {
			if ms, valid := NormalizeTimestamp(int64(*ts)); valid {
				r.Timestamp = ms
			}
		}
	}
	return r, true
}

func lookupNumber(m map[string]interface{}, aliases []string) *float64 {
	for _, key := range aliases {
		switch v := m[key].(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

// ReconcileDedupeWindow is how close two identical readings must be for
// the reconciliation job to treat the newer one as a duplicate (the
// device simply hasn't produced a fresh sample yet).
const ReconcileDedupeWindow = 5 * time.Minute

// ShouldAppend decides whether the reconciliation job writes a new
// historical entry. last is the most recently persisted reading for the
// paddy, or nil when the log is empty. A heuristic, not a transaction:
// identical values within the window are assumed to be the same sample.
func ShouldAppend(last *Reading, next Reading) bool {
	if last == nil {
		return true
	}
	if !equalVal(last.N, next.N) || !equalVal(last.P, next.P) || !equalVal(last.K, next.K) {
		return true
	}
	delta := next.Timestamp - last.Timestamp
	if delta < 0 {
		delta = -delta
	}
	return delta >= ReconcileDedupeWindow.Milliseconds()
}

func equalVal(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
