// Package iox holds small cleanup helpers for deferred closes on
// resources whose close errors carry no signal: zip readers, S3
// response bodies, notifier shutdown.
package iox

import "io"

// DiscardClose closes c and discards the error, for defers where a
// close failure is unactionable:
//
//	defer iox.DiscardClose(body)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c, for t.Cleanup
// registration:
//
//	t.Cleanup(iox.CloseFunc(client))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// DiscardErr calls fn and discards the returned error, for non-Close
// cleanup such as Flush:
//
//	defer iox.DiscardErr(w.Flush)
func DiscardErr(fn func() error) { _ = fn() }
