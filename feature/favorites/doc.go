// Package favorites serves the favorites store over HTTP.
//
// Endpoints:
//   - GET /favorites: list stored favorites
//   - POST /favorites: add or overwrite a favorite
//   - DELETE /favorites/:name: remove a favorite
package favorites
