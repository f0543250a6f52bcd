// Package models defines the province/university tree, the detail
// projection and the wire format of the static page documents.
package models
