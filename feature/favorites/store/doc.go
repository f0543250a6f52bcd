// Package store persists favorite universities.
//
// Two backends implement Store: GormStore writes the favorite_universities
// table through any configured SQL driver, RedisStore keeps a hash of JSON
// records. Both identify a university by name and let the last write win.
package store
