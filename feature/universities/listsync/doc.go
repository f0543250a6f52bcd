// Package listsync keeps the paginated university list and the favorites
// list in sync with their data sources.
//
// The package has two layers. Pure reducers (BeginFetch, MergePage,
// ToggleProvince and friends) take an immutable state and return the next
// state plus the view events it implies. Home and Favorites wrap those
// reducers in a single-goroutine loop that owns the state, performs the
// fetches and favorites store writes, and publishes events on one channel.
package listsync
