package readings

import "testing"

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		in     int64
		wantMs int64
		wantOK bool
	}{
		{"uptime counter stays raw", 12345, 12345, false},
		{"just below year-2000 seconds", 946684799, 946684799, false},
		{"year-2000 in seconds scales up", 946684800, 946684800000, true},
		{"typical seconds value scales up", 1700000000, 1700000000000, true},
		{"just below year-2000 millis scales up", 946684799999, 946684799999000, true},
		{"millis value passes through", 946684800000, 946684800000, true},
		{"typical millis value passes through", 1700000000000, 1700000000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, ok := NormalizeTimestamp(tt.in)
			if ms != tt.wantMs || ok != tt.wantOK {
				t.Errorf("NormalizeTimestamp(%d) = (%d, %v), want (%d, %v)",
					tt.in, ms, ok, tt.wantMs, tt.wantOK)
			}
		})
	}
}

func TestTimestampLabel(t *testing.T) {
	if got := TimestampLabel(4242); got != "t=4242" {
		t.Errorf("non-absolute timestamp should render raw, got %q", got)
	}
	if got := TimestampLabel(946684800); got != "2000-01-01 00:00:00" {
		t.Errorf("seconds timestamp mis-rendered: %q", got)
	}
}

func TestDedupeKey(t *testing.T) {
	withID := Reading{Source: SourcePaddyLog, DocID: "abc", Timestamp: 999_999, N: fp(1)}
	if got := withID.DedupeKey(); got != "paddy-log:abc" {
		t.Errorf("doc id key = %q", got)
	}

	noID := Reading{Source: SourceLiveFeed, Timestamp: 100_500, N: fp(10), P: fp(5)}
	if got := noID.DedupeKey(); got != "live:100:10:5:-" {
		t.Errorf("fallback key = %q", got)
	}
}
