// Package config provides configuration management for unilist.
//
// Values come from a .env file (if present) and environment variables,
// with defaults taken from the `default` struct tags of every section.
// Nested keys map to upper-case variables joined by underscores, so
// source.base_url is read from SOURCE_BASE_URL.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, session limits
//   - Log: level and format
//   - Database: SQL driver and connection of the favorites store
//   - Redis: Redis connection of the favorites store
//   - Storage: S3/MinIO credentials and the bucket of mirrored pages
//   - Source: page source (http or storage), URL, cache TTL
//   - List: scroll threshold, debounce and failure delay
//   - Favorites: favorites backend (database or redis)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
