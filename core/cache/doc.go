// Package cache opens the Redis connection used as a key-value backend for
// the favorites store.
package cache
