// Package utils provides small coercion helpers shared by the page decoder,
// the HTTP handlers and the CLI.
package utils
