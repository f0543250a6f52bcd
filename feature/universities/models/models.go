package models

import "strings"

// NotAvailable is the sentinel the source uses for a missing field value.
const NotAvailable = "-"

// Province groups the universities of one province.
type Province struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Universities []University `json:"universities"`
	Expanded     bool         `json:"expanded"`
}

// University is a single institution. (ProvinceID, Index) locates it in the
// tree; Name identifies it in the favorites store.
type University struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Fax        string `json:"fax"`
	Website    string `json:"website"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Rector     string `json:"rector"`
	ProvinceID int    `json:"province_id"`
	Index      int    `json:"index"`
	Expanded   bool   `json:"expanded"`
	Favorite   bool   `json:"favorite"`
}

// SameAs reports whether u and other refer to the same university.
func (u University) SameAs(other University) bool {
	return u.Name == other.Name
}

// PersistentCopy returns u with the view flags reset, as stored in the
// favorites store.
func (u University) PersistentCopy() University {
	u.Favorite = false
	u.Expanded = false
	return u
}

// DetailCategory names one displayable fact about a university.
type DetailCategory string

const (
	CategoryPhone   DetailCategory = "phone"
	CategoryFax     DetailCategory = "fax"
	CategoryWebsite DetailCategory = "website"
	CategoryEmail   DetailCategory = "email"
	CategoryAddress DetailCategory = "address"
	CategoryRector  DetailCategory = "rector"
)

// Detail is a (category, value) pair derived from a University.
type Detail struct {
	Category DetailCategory `json:"category"`
	Value    string         `json:"value"`
}

// Details projects the six contact fields, skipping unavailable ones.
func (u University) Details() []Detail {
	fields := []Detail{
		{CategoryPhone, u.Phone},
		{CategoryFax, u.Fax},
		{CategoryWebsite, u.Website},
		{CategoryEmail, u.Email},
		{CategoryAddress, u.Address},
		{CategoryRector, u.Rector},
	}

	details := make([]Detail, 0, len(fields))
	for _, d := range fields {
		if !Available(d.Value) {
			continue
		}
		details = append(details, d)
	}
	return details
}

// Available reports whether a raw field value carries information.
func Available(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && v != NotAvailable
}

// Path addresses a row: Section is the province position, Row the
// university position inside it. The favorites list uses Section 0.
type Path struct {
	Section int `json:"section"`
	Row     int `json:"row"`
}
