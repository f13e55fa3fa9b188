// Package httputil fetches remote graph files.
//
// Build trees are often inspected from CI artifacts rather than a local
// checkout, so [Fetch] lets every command accept an http(s) URL wherever
// it accepts a graph path. Transient failures are retried:
//
//   - network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other statuses fail immediately. [ErrNotFound] is returned for 404 so
// callers can report the source as missing, like a local file.
//
// Retries use exponential backoff through [Retry]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetchOnce()
//	})
//
// Wrap an error in [RetryableError] to make [Retry] attempt it again.
package httputil
