package listsync

import "unilist/feature/universities/models"

// EventKind names a presentation-layer signal.
type EventKind string

const (
	EventReloadAll     EventKind = "reload_all"
	EventReloadSection EventKind = "reload_section"
	EventReloadRows    EventKind = "reload_rows"
	EventDeleteRows    EventKind = "delete_rows"
	EventShowLoading   EventKind = "show_loading"
	EventHideLoading   EventKind = "hide_loading"
	EventShowError     EventKind = "show_error"
	EventShowNotice    EventKind = "show_notice"
)

// Event is one instruction to the view layer. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind     EventKind     `json:"kind"`
	Sections []int         `json:"sections,omitempty"`
	Rows     []models.Path `json:"rows,omitempty"`
	Title    string        `json:"title,omitempty"`
	Message  string        `json:"message,omitempty"`
}

func reloadAll() Event { return Event{Kind: EventReloadAll} }

func reloadSections(sections ...int) Event {
	return Event{Kind: EventReloadSection, Sections: sections}
}

func reloadRows(rows ...models.Path) Event {
	return Event{Kind: EventReloadRows, Rows: rows}
}

func deleteRows(rows ...models.Path) Event {
	return Event{Kind: EventDeleteRows, Rows: rows}
}

func showLoading() Event { return Event{Kind: EventShowLoading} }

func hideLoading() Event { return Event{Kind: EventHideLoading} }

func showError(message string) Event {
	return Event{Kind: EventShowError, Title: "Error", Message: message}
}

func showNotice(title, message string) Event {
	return Event{Kind: EventShowNotice, Title: title, Message: message}
}

// Notices raised by rejected toggles.
const (
	NoticeNoUniversitiesTitle = "No universities"
	NoticeNoUniversities      = "There are no universities listed for this province."
	NoticeNoDetailsTitle      = "No details"
	NoticeNoDetails           = "There is no contact information for this university."
)
