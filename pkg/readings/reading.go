package readings

import (
	"fmt"
	"strconv"
	"time"
)

// Source tags identify which path produced a reading. Logs written by
// different paths can describe the same physical sample, so the tag is
// part of the dedupe key.
const (
	SourcePaddyLog   = "paddy-log"  // direct per-paddy historical log
	SourceDeviceLog  = "device-log" // device-level fallback log
	SourceLiveFeed   = "live"       // opportunistic write from a live update
	SourceManual     = "manual"     // user pressed "log now"
	SourceReconciler = "reconciler" // scheduled reconciliation job
)

// Unix-epoch thresholds for the year 2000, in seconds and milliseconds.
// Devices report timestamps in either unit and don't tell us which.
const (
	year2000Seconds = int64(946684800)
	year2000Millis  = year2000Seconds * 1000
)

// Reading is one NPK observation from any source. Timestamp is unix
// milliseconds after normalization. Nutrient and environment values are
// pointers: a nil value means the sensor did not report it, which is
// rendered as a placeholder, never interpolated.
type Reading struct {
	Source    string   `json:"source"`
	DocID     string   `json:"docId,omitempty"` // persistent document id, empty for live entries
	Timestamp int64    `json:"timestamp"`
	N         *float64 `json:"n,omitempty"`
	P         *float64 `json:"p,omitempty"`
	K         *float64 `json:"k,omitempty"`
	Temp      *float64 `json:"temperature,omitempty"`
	Humidity  *float64 `json:"humidity,omitempty"`
	WaterLvl  *float64 `json:"waterLevel,omitempty"`
}

// HasNPK reports whether at least one nutrient value is present.
func (r Reading) HasNPK() bool {
	return r.N != nil || r.P != nil || r.K != nil
}

// DedupeKey identifies "the same" reading across sources: the
// persistent id when one exists, else the fallback key.
func (r Reading) DedupeKey() string {
	if r.DocID != "" {
		return r.Source + ":" + r.DocID
	}
	return r.FallbackKey()
}

// FallbackKey is the second-truncated timestamp plus the raw nutrient
// values. A live-feed entry has no document id yet may coincide with a
// reading the reconciliation job later persists, so persisted entries
// keep answering to this key too.
func (r Reading) FallbackKey() string {
	return r.Source + ":" + strconv.FormatInt(r.Timestamp/1000, 10) +
		":" + fmtVal(r.N) + ":" + fmtVal(r.P) + ":" + fmtVal(r.K)
}

// DedupeKeys returns every key this reading answers to during a merge.
func (r Reading) DedupeKeys() []string {
	if r.DocID != "" {
		return []string{r.Source + ":" + r.DocID, r.FallbackKey()}
	}
	return []string{r.FallbackKey()}
}

func fmtVal(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// NormalizeTimestamp coerces a device-reported timestamp into unix
// milliseconds. Values in the plausible seconds range are scaled up;
// values below the year-2000 seconds threshold are not absolute times at
// all (ok reports false) and should be shown as a raw label.
func NormalizeTimestamp(t int64) (ms int64, ok bool) {
	switch {
	case t < year2000Seconds:
		return t, false
	case t < year2000Millis:
		return t * 1000, true
	default:
		return t, true
	}
}

// TimestampLabel formats a device timestamp for display, falling back to
// the raw number when it isn't a credible absolute time.
func TimestampLabel(t int64) string {
	ms, ok := NormalizeTimestamp(t)
	if !ok {
		return fmt.Sprintf("t=%d", t)
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}
