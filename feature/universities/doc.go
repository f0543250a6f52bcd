// Package universities serves browsing sessions over HTTP.
//
// A session pairs a home list (paginated provinces and their universities)
// with a favorites list, both driven by package listsync. Clients mutate
// the lists through the /sessions routes and read the resulting view
// events from /sessions/:id/events.
package universities
