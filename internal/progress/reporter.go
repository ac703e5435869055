package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	barWidth = 50

	cursorUp2 = "\033[2A" // move the cursor up two lines
	clearLine = "\033[K"  // clear from the cursor to the end of line
)

// Render formats an observation as the two-line terminal display: a
// status line and a bar line, joined by a newline. Render writes
// nothing; it only builds the string.
func Render(obs Observation) string {
	var status string
	if obs.PercentKnown {
		status = fmt.Sprintf("Downloading: %.2f%% at %.2f MB/s", obs.Percent, obs.SpeedMBps)
	} else {
		status = fmt.Sprintf("Downloading: --%% at %.2f MB/s", obs.SpeedMBps)
	}

	filled := int(obs.BarFraction * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"

	return status + "\n" + bar
}

// Options configures the progress reporter.
type Options struct {
	// Total is the expected number of bytes, or zero/negative when the
	// source did not report a size.
	Total int64

	// Output is where the display is drawn.
	// Default: os.Stderr
	Output io.Writer

	// Now supplies the clock for speed calculation.
	// Default: time.Now
	Now func() time.Time
}

// Reporter draws the download display on a terminal, redrawing the same
// two lines in place after every chunk. All terminal writes happen here;
// the underlying [Tracker] and [Render] are pure.
type Reporter struct {
	opts    Options
	tracker *Tracker
}

// NewReporter creates a reporter for a transfer of opts.Total bytes.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Reporter{
		opts:    opts,
		tracker: NewTracker(opts.Total),
	}
}

// Start prints the initial display lines. Call it once before the first
// Advance.
func (r *Reporter) Start() {
	obs := Observation{
		Total:        r.tracker.total,
		PercentKnown: r.tracker.total > 0,
	}
	fmt.Fprintln(r.opts.Output, Render(obs))
}

// Advance records that n more bytes arrived and redraws the display in
// place.
func (r *Reporter) Advance(n int) {
	obs := r.tracker.Observe(r.opts.Now(), n)

	var b strings.Builder
	b.WriteString(cursorUp2)
	for _, line := range strings.Split(Render(obs), "\n") {
		b.WriteString(clearLine)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	io.WriteString(r.opts.Output, b.String())
}

// Stop moves the terminal past the display. Call it after the last
// Advance, whether or not the download succeeded.
func (r *Reporter) Stop() {
	fmt.Fprintln(r.opts.Output)
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// ParseBytes parses a human-readable byte string (e.g. "8KB", "1.5MB")
// into a byte count. A bare number is taken as bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)

	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	if _, err := fmt.Sscanf(s, "%f", &value); err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}
