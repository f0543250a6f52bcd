// Package validation wraps go-playground/validator for request bodies and
// configuration structs.
package validation
