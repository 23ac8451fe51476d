package readings

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	for _, ok := range []string{"", "7d", "30d", "90d", "all"} {
		if _, err := ParseWindow(ok); err != nil {
			t.Errorf("ParseWindow(%q) unexpected error: %v", ok, err)
		}
	}
	if _, err := ParseWindow("14d"); err == nil {
		t.Error("ParseWindow should reject unknown ranges")
	}
}

func TestWindowCutoff(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cut, ok := Window30d.Cutoff(now)
	if !ok || !cut.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("30d cutoff = (%v, %v)", cut, ok)
	}

	if _, ok := WindowAll.Cutoff(now); ok {
		t.Error("all window must report no cutoff")
	}
}

func TestFilterAfter(t *testing.T) {
	rs := []Reading{
		{Timestamp: 1000}, {Timestamp: 2000}, {Timestamp: 3000},
	}
	got := FilterAfter(rs, 2000)
	if len(got) != 2 || got[0].Timestamp != 2000 {
		t.Errorf("FilterAfter result wrong: %+v", got)
	}
}
