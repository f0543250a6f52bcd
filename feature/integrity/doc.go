// Package integrity provides health checks for the infrastructure unilist
// depends on.
//
// # Checks Provided
//
//   - Source: fetches page 1 from the configured page source and reports the page count.
//   - Pages: verifies that every page announced by the source is mirrored in the storage bucket.
//   - Schema: validates the favorites table against its gorm model (columns, types).
//   - Cache: pings Redis.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/source : Runs the source check.
//   - GET /integrity/pages : Runs the pages check (supports ?fix=true to create the bucket).
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true to migrate).
//   - GET /integrity/cache : Runs the Redis check.
package integrity
