package listsync

import (
	"unilist/feature/universities/models"
)

// BeginFetch moves the home list into Loading and returns the page to
// request. ok is false when a fetch is in flight or no pages remain; the
// state is then returned unchanged.
func BeginFetch(s HomeState) (next HomeState, page int, ok bool, events []Event) {
	if !s.Cursor.CanFetch() {
		return s, 0, false, nil
	}
	next = s
	next.Cursor.Loading = true
	next.Phase = PhaseLoading
	return next, s.Cursor.CurrentPage + 1, true, []Event{showLoading()}
}

// MergePage appends the provinces of a fetched page, advances the cursor and
// stamps favorites. Provinces already present (same ID) are not duplicated.
func MergePage(s HomeState, page *models.PageResponse, favorites FavoriteSet) (HomeState, []Event) {
	next := s
	next.Cursor.Loading = false
	next.Phase = PhaseMerged
	next.LastError = ""

	current := page.CurrentPage
	if current < s.Cursor.CurrentPage {
		current = s.Cursor.CurrentPage
	}
	total := page.TotalPages
	if total < current {
		total = current
	}
	next.Cursor.CurrentPage = current
	next.Cursor.TotalPages = total

	seen := make(map[int]struct{}, len(s.Provinces))
	for _, p := range s.Provinces {
		seen[p.ID] = struct{}{}
	}

	provinces := make([]models.Province, len(s.Provinces), len(s.Provinces)+len(page.Provinces))
	copy(provinces, s.Provinces)
	for _, p := range page.ToProvinces() {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		provinces = append(provinces, p)
	}
	next.Provinces = provinces

	next = StampFavorites(next, favorites)
	return next, []Event{hideLoading(), reloadAll()}
}

// FailFetch records a failed fetch. message is the user-facing text.
func FailFetch(s HomeState, message string) (HomeState, []Event) {
	next := s
	next.Cursor.Loading = false
	next.Phase = PhaseFailed
	next.LastError = message
	return next, []Event{hideLoading(), showError(message)}
}

// Reset clears the accumulated tree and rewinds the cursor to page 0.
// It is refused while a fetch is in flight so a late page can never land
// in the cleared tree.
func Reset(s HomeState) (HomeState, bool, []Event) {
	if s.Cursor.Loading {
		return s, false, nil
	}
	return NewHomeState(), true, []Event{reloadAll()}
}

// StampFavorites sets Favorite on every university by exact name match.
// Applying it twice with the same set yields the same state.
func StampFavorites(s HomeState, favorites FavoriteSet) HomeState {
	next := s
	next.Provinces = make([]models.Province, len(s.Provinces))
	for i, p := range s.Provinces {
		unis := make([]models.University, len(p.Universities))
		for j, u := range p.Universities {
			u.Favorite = favorites.Has(u.Name)
			unis[j] = u
		}
		p.Universities = unis
		next.Provinces[i] = p
	}
	return next
}

// withProvince returns a copy of s whose province at section is replaced.
func withProvince(s HomeState, section int, p models.Province) HomeState {
	next := s
	next.Provinces = make([]models.Province, len(s.Provinces))
	copy(next.Provinces, s.Provinces)
	next.Provinces[section] = p
	return next
}

// withUniversity returns a copy of s whose university at path is replaced.
func withUniversity(s HomeState, path models.Path, u models.University) HomeState {
	p := s.Provinces[path.Section]
	unis := make([]models.University, len(p.Universities))
	copy(unis, p.Universities)
	unis[path.Row] = u
	p.Universities = unis
	return withProvince(s, path.Section, p)
}

// ToggleProvince flips the expanded flag of the province at section.
// A province without universities is left untouched and a notice is raised.
func ToggleProvince(s HomeState, section int) (HomeState, []Event) {
	if section < 0 || section >= len(s.Provinces) {
		return s, nil
	}
	p := s.Provinces[section]
	if len(p.Universities) == 0 {
		return s, []Event{showNotice(NoticeNoUniversitiesTitle, NoticeNoUniversities)}
	}
	p.Expanded = !p.Expanded
	return withProvince(s, section, p), []Event{reloadSections(section)}
}

// ToggleUniversity flips the expanded flag of the university at path.
// A university without details is left untouched and a notice is raised.
// Rows of a collapsed province are not visible and cannot be toggled.
func ToggleUniversity(s HomeState, path models.Path) (HomeState, []Event) {
	u, ok := s.University(path)
	if !ok || !s.Provinces[path.Section].Expanded {
		return s, nil
	}
	if len(u.Details()) == 0 {
		return s, []Event{showNotice(NoticeNoDetailsTitle, NoticeNoDetails)}
	}
	u.Expanded = !u.Expanded
	return withUniversity(s, path, u), []Event{reloadRows(path)}
}

// ToggleFavorite flips the favorite flag of the university at path and
// returns the updated university so the caller can persist it.
func ToggleFavorite(s HomeState, path models.Path) (HomeState, models.University, bool, []Event) {
	u, ok := s.University(path)
	if !ok {
		return s, models.University{}, false, nil
	}
	u.Favorite = !u.Favorite
	return withUniversity(s, path, u), u, true, []Event{reloadRows(path)}
}

// CollapseAll collapses every expanded province and university and emits a
// single section reload covering all affected provinces.
func CollapseAll(s HomeState) (HomeState, []Event) {
	var sections []int
	next := s
	next.Provinces = make([]models.Province, len(s.Provinces))

	for i, p := range s.Provinces {
		affected := p.Expanded
		var unis []models.University
		for j, u := range p.Universities {
			if !u.Expanded {
				continue
			}
			if unis == nil {
				unis = make([]models.University, len(p.Universities))
				copy(unis, p.Universities)
			}
			unis[j].Expanded = false
			affected = true
		}
		if unis != nil {
			p.Universities = unis
		}
		p.Expanded = false
		next.Provinces[i] = p
		if affected {
			sections = append(sections, i)
		}
	}

	if len(sections) == 0 {
		return s, nil
	}
	return next, []Event{reloadSections(sections...)}
}

// DetailsAt returns the detail projection of the university at path.
func DetailsAt(s HomeState, path models.Path) ([]models.Detail, bool) {
	u, ok := s.University(path)
	if !ok {
		return nil, false
	}
	return u.Details(), true
}

// LoadFavorites builds the favorites list from the store contents.
func LoadFavorites(list []models.University) (FavoritesState, []Event) {
	unis := make([]models.University, len(list))
	for i, u := range list {
		u.Favorite = true
		u.Expanded = false
		unis[i] = u
	}
	return FavoritesState{Universities: unis, Loaded: true}, []Event{reloadAll()}
}

func favoritesPath(row int) models.Path {
	return models.Path{Section: 0, Row: row}
}

// ToggleFavoriteRow flips the expanded flag of the favorite at row.
func ToggleFavoriteRow(s FavoritesState, row int) (FavoritesState, []Event) {
	u, ok := s.University(row)
	if !ok {
		return s, nil
	}
	if len(u.Details()) == 0 {
		return s, []Event{showNotice(NoticeNoDetailsTitle, NoticeNoDetails)}
	}
	u.Expanded = !u.Expanded
	next := s
	next.Universities = make([]models.University, len(s.Universities))
	copy(next.Universities, s.Universities)
	next.Universities[row] = u
	return next, []Event{reloadRows(favoritesPath(row))}
}

// RemoveFavoriteRow drops the favorite at row from the list and returns it.
func RemoveFavoriteRow(s FavoritesState, row int) (FavoritesState, models.University, bool, []Event) {
	u, ok := s.University(row)
	if !ok {
		return s, models.University{}, false, nil
	}
	next := s
	next.Universities = make([]models.University, 0, len(s.Universities)-1)
	next.Universities = append(next.Universities, s.Universities[:row]...)
	next.Universities = append(next.Universities, s.Universities[row+1:]...)
	return next, u, true, []Event{deleteRows(favoritesPath(row))}
}

// CollapseFavorites collapses every expanded favorite and emits one row
// reload covering them.
func CollapseFavorites(s FavoritesState) (FavoritesState, []Event) {
	var rows []models.Path
	unis := make([]models.University, len(s.Universities))
	for i, u := range s.Universities {
		if u.Expanded {
			u.Expanded = false
			rows = append(rows, favoritesPath(i))
		}
		unis[i] = u
	}
	if len(rows) == 0 {
		return s, nil
	}
	next := s
	next.Universities = unis
	return next, []Event{reloadRows(rows...)}
}
