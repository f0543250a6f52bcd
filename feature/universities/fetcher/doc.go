// Package fetcher retrieves pages of the static university source.
//
// Two sources are supported: the public HTTP directory of page documents and
// an object storage bucket the documents were mirrored into. Either can be
// wrapped in CachedFetcher, a TTL page cache with singleflight collapsing of
// concurrent requests for the same page.
//
// Every failure is an *Error carrying a Kind (no connection, invalid URL,
// server, decoding, no data, unknown); match kinds with errors.Is against the
// Err* sentinels and turn them into user text with UserMessage.
package fetcher
