package handlers

import (
	"testing"

	"github.com/carl0-ilagan/padbuddy-server/pkg/readings"
)

func TestChartLabels(t *testing.T) {
	chart := []readings.Reading{
		{Timestamp: 946684800000}, // first credible millisecond value
		{Timestamp: 4242},         // relative device uptime, renders raw
	}
	got := chartLabels(chart)
	if len(got) != len(chart) {
		t.Fatalf("len = %d, want %d", len(got), len(chart))
	}
	if got[0] != "2000-01-01 00:00:00" {
		t.Errorf("labels[0] = %q", got[0])
	}
	if got[1] != "t=4242" {
		t.Errorf("labels[1] = %q", got[1])
	}

	if labels := chartLabels(nil); len(labels) != 0 {
		t.Errorf("empty chart should yield no labels, got %v", labels)
	}
}
