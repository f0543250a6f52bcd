package listsync

import "unilist/feature/universities/models"

// Phase is the pagination state of the home list.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseMerged  Phase = "merged"
	PhaseFailed  Phase = "failed"
)

// Cursor is the pagination bookkeeping of the home list.
type Cursor struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	Loading     bool `json:"loading"`
}

// InitialCursor is the cursor before the first page.
func InitialCursor() Cursor {
	return Cursor{CurrentPage: 0, TotalPages: 1}
}

// CanFetch reports whether a new page may be requested.
func (c Cursor) CanFetch() bool {
	return !c.Loading && c.CurrentPage < c.TotalPages
}

// HasMore reports whether pages remain beyond the current one.
func (c Cursor) HasMore() bool {
	return c.CurrentPage < c.TotalPages
}

// HomeState is an immutable snapshot of the province/university tree.
// Reducers never modify a state in place; they return a new one.
type HomeState struct {
	Provinces []models.Province `json:"provinces"`
	Cursor    Cursor            `json:"cursor"`
	Phase     Phase             `json:"phase"`
	LastError string            `json:"last_error,omitempty"`
}

// NewHomeState returns the empty initial state.
func NewHomeState() HomeState {
	return HomeState{Cursor: InitialCursor(), Phase: PhaseIdle}
}

// University returns the university at path.
func (s HomeState) University(path models.Path) (models.University, bool) {
	if path.Section < 0 || path.Section >= len(s.Provinces) {
		return models.University{}, false
	}
	unis := s.Provinces[path.Section].Universities
	if path.Row < 0 || path.Row >= len(unis) {
		return models.University{}, false
	}
	return unis[path.Row], true
}

// UniversityCount returns the number of universities across all provinces.
func (s HomeState) UniversityCount() int {
	n := 0
	for _, p := range s.Provinces {
		n += len(p.Universities)
	}
	return n
}

// FavoritesState is an immutable snapshot of the favorites list view.
type FavoritesState struct {
	Universities []models.University `json:"universities"`
	Loaded       bool                `json:"loaded"`
}

// University returns the favorite at row.
func (s FavoritesState) University(row int) (models.University, bool) {
	if row < 0 || row >= len(s.Universities) {
		return models.University{}, false
	}
	return s.Universities[row], true
}

// FavoriteSet indexes favorite universities by name.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds the index from the store contents.
func NewFavoriteSet(list []models.University) FavoriteSet {
	set := make(FavoriteSet, len(list))
	for _, u := range list {
		set[u.Name] = struct{}{}
	}
	return set
}

// Has reports whether a university with name is a favorite.
func (f FavoriteSet) Has(name string) bool {
	_, ok := f[name]
	return ok
}
