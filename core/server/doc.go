// Package server holds the HTTP server configuration.
//
// The start command owns the server lifecycle; this package only defines the
// settings (port, API key, session cap, long-poll cap) and their validation.
package server
