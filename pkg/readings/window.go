package readings

import (
	"fmt"
	"time"
)

// Window is the caller-chosen history range for reading queries.
type Window string

const (
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
	WindowAll Window = "all"
)

// ParseWindow validates a range query parameter, defaulting to 7d when
// empty.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "":
		return Window7d, nil
	case Window7d, Window30d, Window90d, WindowAll:
		return Window(s), nil
	default:
		return "", fmt.Errorf("invalid range %q (want 7d, 30d, 90d or all)", s)
	}
}

// Cutoff returns the earliest timestamp inside the window, or ok=false
// for the unbounded "all" window. Callers querying with "all" fetch the
// full set and filter in memory instead of asking the store for a
// timestamp-ordered range.
func (w Window) Cutoff(now time.Time) (t time.Time, ok bool) {
	switch w {
	case Window7d:
		return now.AddDate(0, 0, -7), true
	case Window30d:
		return now.AddDate(0, 0, -30), true
	case Window90d:
		return now.AddDate(0, 0, -90), true
	default:
		return time.Time{}, false
	}
}

// FilterAfter keeps readings at or after cutoff (unix millis). Used for
// the in-memory pass of the "all" window and for re-filtering merged
// live entries that predate the window.
func FilterAfter(rs []Reading, cutoffMs int64) []Reading {
	out := rs[:0:0]
	for _, r := range rs {
		if r.Timestamp >= cutoffMs {
			out = append(out, r)
		}
	}
	return out
}
