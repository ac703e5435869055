// Package fetch downloads delegation files over HTTP.
//
// The client performs a single unauthenticated GET per download: no
// retries, no backoff, no ranged transfers. A failure aborts the whole
// run and the caller decides whether to start over.
//
// # Usage
//
//	client := fetch.NewClient(fetch.DefaultOptions())
//
//	var buf bytes.Buffer
//	n, err := client.Download(ctx, url, &buf, fetch.DownloadOptions{
//	    Progress: os.Stderr,
//	})
//
// Download checks the context once per chunk so cancellation takes
// effect mid-transfer, draws the progress display between chunks when
// Progress is set, and tolerates a missing Content-Length by reporting
// progress with an unknown total.
//
// # Error Handling
//
// Status failures map to sentinel errors (ErrNotFound, ErrServerError,
// ...) that callers can test with errors.Is.
package fetch
