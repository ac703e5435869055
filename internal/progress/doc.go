// Package progress tracks and displays download progress.
//
// A [Tracker] keeps a sliding window of (time, cumulative bytes) samples
// and derives an [Observation] per received chunk: completion
// percentage, windowed transfer speed, and bar fraction. [Render] turns
// an observation into the two-line terminal display, and a [Reporter]
// owns the in-place redraw of those lines.
//
// Tracker and Render are pure; only Reporter writes to the terminal.
// Callers that need deterministic output supply the clock through
// [Options.Now].
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    Total: contentLength,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as chunks arrive
//	reporter.Advance(n)
//
// # Output Format
//
//	Downloading: 45.21% at 3.48 MB/s
//	[######################----------------------------]
//
// The display is redrawn in place after every chunk using ANSI cursor
// movement. When the source does not report a Content-Length the
// percentage shows as "--%" and the bar stays empty.
package progress
