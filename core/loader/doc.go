// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which defines its lifecycle
// hooks and route registration logic:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager registers features, loads the enabled ones and, on shutdown,
// closes every feature that also implements Closer (the session registry of
// the universities feature stops its list actors this way).
package loader
