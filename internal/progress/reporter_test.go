package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		obs  Observation
		want string
	}{
		{
			name: "start",
			obs:  Observation{PercentKnown: true},
			want: "Downloading: 0.00% at 0.00 MB/s\n[" + strings.Repeat("-", 50) + "]",
		},
		{
			name: "partial",
			obs: Observation{
				Percent:      45.5,
				PercentKnown: true,
				SpeedMBps:    2.5,
				BarFraction:  0.455,
			},
			want: "Downloading: 45.50% at 2.50 MB/s\n[" +
				strings.Repeat("#", 22) + strings.Repeat("-", 28) + "]",
		},
		{
			name: "complete",
			obs: Observation{
				Percent:      100,
				PercentKnown: true,
				SpeedMBps:    3.125,
				BarFraction:  1,
			},
			want: "Downloading: 100.00% at 3.12 MB/s\n[" + strings.Repeat("#", 50) + "]",
		},
		{
			name: "unknown total",
			obs:  Observation{SpeedMBps: 1.25},
			want: "Downloading: --% at 1.25 MB/s\n[" + strings.Repeat("-", 50) + "]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.obs); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReporterRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	now := testStart

	reporter := NewReporter(Options{
		Total:  200,
		Output: &buf,
		Now:    func() time.Time { return now },
	})

	reporter.Start()
	now = now.Add(time.Second)
	reporter.Advance(100)
	reporter.Stop()

	out := buf.String()

	if !strings.Contains(out, "Downloading: 0.00% at 0.00 MB/s") {
		t.Errorf("output missing initial status line:\n%q", out)
	}
	if !strings.Contains(out, "Downloading: 50.00%") {
		t.Errorf("output missing updated status line:\n%q", out)
	}
	if got := strings.Count(out, cursorUp2); got != 1 {
		t.Errorf("output contains %d cursor-up sequences, want 1", got)
	}
	if got := strings.Count(out, clearLine); got != 2 {
		t.Errorf("output contains %d clear-line sequences, want 2", got)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("output does not end with a newline")
	}
}

func TestReporterUnknownTotal(t *testing.T) {
	var buf bytes.Buffer

	reporter := NewReporter(Options{
		Total:  0,
		Output: &buf,
		Now:    func() time.Time { return testStart },
	})

	reporter.Start()
	reporter.Advance(4096)
	reporter.Stop()

	if !strings.Contains(buf.String(), "--%") {
		t.Errorf("output missing unknown-percent marker:\n%q", buf.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{8192, "8.00 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.input)
		if result != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"100", 100},
		{"100B", 100},
		{"8KB", 8192},
		{"1.5KB", 1536},
		{"256MB", 256 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		result, err := ParseBytes(tt.input)
		if err != nil {
			t.Errorf("ParseBytes(%q): %v", tt.input, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

func TestParseBytesInvalid(t *testing.T) {
	if _, err := ParseBytes("invalid"); err == nil {
		t.Error("expected error for invalid input")
	}
}
