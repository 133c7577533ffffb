package viz

import (
	"strings"
	"testing"
)

func TestProgressLine(t *testing.T) {
	tests := []struct {
		remaining, total int
		want             string
	}{
		{100, 100, "0.00%"},
		{25, 100, "75.00%"},
		{0, 100, "100.00%"},
		{0, 0, "100.00%"},
	}
	for _, tt := range tests {
		got := ProgressLine(tt.remaining, tt.total)
		if !strings.Contains(got, tt.want) || !strings.Contains(got, "\rProgress") {
			t.Errorf("ProgressLine(%d, %d) = %q, want %s", tt.remaining, tt.total, got, tt.want)
		}
	}
}

func TestProgressBar_Clamps(t *testing.T) {
	for _, pct := range []float64{-10, 0, 50, 100, 250} {
		if n := strings.Count(ProgressBar(pct, 20), "█") + strings.Count(ProgressBar(pct, 20), "░"); n != 20 {
			t.Errorf("pct %v: bar has %d cells", pct, n)
		}
	}
}

func TestMessages(t *testing.T) {
	if !strings.Contains(Error("could not load %s", "x"), "could not load x") {
		t.Error("Error lost its message")
	}
	if !strings.Contains(Warning("too many"), "too many") {
		t.Error("Warning lost its message")
	}
	if !strings.Contains(Metric("detected", 5), "5") {
		t.Error("Metric lost its value")
	}
}
