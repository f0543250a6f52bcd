package models

import (
	"fmt"

	"unilist/core/utils"

	"github.com/goccy/go-json"
)

// PageResponse is one page of the static university source.
type PageResponse struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int
	ItemsPerPage int
	PageSize     int
	Provinces    []ProvinceRecord
}

// ProvinceRecord is a province as served by the source.
type ProvinceRecord struct {
	ID           int                `json:"id"`
	Name         string             `json:"province"`
	Universities []UniversityRecord `json:"universities"`
}

// UniversityRecord is a university as served by the source. The upstream
// documents spell the address key "adress"; both spellings are accepted.
type UniversityRecord struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Fax     string `json:"fax"`
	Website string `json:"website"`
	Email   string `json:"email"`
	Address string `json:"adress"`
	Rector  string `json:"rector"`
}

type universityRecordWire struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Fax     string `json:"fax"`
	Website string `json:"website"`
	Email   string `json:"email"`
	Adress  string `json:"adress"`
	Address string `json:"address"`
	Rector  string `json:"rector"`
}

// UnmarshalJSON accepts both address spellings.
func (r *UniversityRecord) UnmarshalJSON(data []byte) error {
	var w universityRecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	addr := w.Adress
	if addr == "" {
		addr = w.Address
	}
	*r = UniversityRecord{
		Name:    w.Name,
		Phone:   w.Phone,
		Fax:     w.Fax,
		Website: w.Website,
		Email:   w.Email,
		Address: addr,
		Rector:  w.Rector,
	}
	return nil
}

type pageWire struct {
	CurrentPage any              `json:"currentPage"`
	TotalPage   any              `json:"totalPage"`
	Total       any              `json:"total"`
	ItemPerPage any              `json:"itemPerPage"`
	PageSize    any              `json:"pageSize"`
	Data        []ProvinceRecord `json:"data"`
}

// UnmarshalJSON decodes the wire document, coercing numeric headers that
// arrive as strings.
func (p *PageResponse) UnmarshalJSON(data []byte) error {
	var w pageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = PageResponse{
		CurrentPage:  utils.ToInt(w.CurrentPage),
		TotalPages:   utils.ToInt(w.TotalPage),
		TotalItems:   utils.ToInt(w.Total),
		ItemsPerPage: utils.ToInt(w.ItemPerPage),
		PageSize:     utils.ToInt(w.PageSize),
		Provinces:    w.Data,
	}
	return nil
}

// MarshalJSON encodes the page in the wire format served by the source.
func (p PageResponse) MarshalJSON() ([]byte, error) {
	data := p.Provinces
	if data == nil {
		data = []ProvinceRecord{}
	}
	return json.Marshal(pageWire{
		CurrentPage: p.CurrentPage,
		TotalPage:   p.TotalPages,
		Total:       p.TotalItems,
		ItemPerPage: p.ItemsPerPage,
		PageSize:    p.PageSize,
		Data:        data,
	})
}

// DecodePage parses a page document. A document without a positive page
// number or page count is rejected.
func DecodePage(data []byte) (*PageResponse, error) {
	var page PageResponse
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	if page.CurrentPage <= 0 || page.TotalPages <= 0 {
		return nil, fmt.Errorf("page header incomplete: currentPage=%d totalPage=%d", page.CurrentPage, page.TotalPages)
	}
	return &page, nil
}

// ToProvinces converts the records of a page into tree nodes, stamping each
// university with its province id and position.
func (p *PageResponse) ToProvinces() []Province {
	provinces := make([]Province, 0, len(p.Provinces))
	for _, rec := range p.Provinces {
		prov := Province{
			ID:           rec.ID,
			Name:         rec.Name,
			Universities: make([]University, 0, len(rec.Universities)),
		}
		for i, u := range rec.Universities {
			prov.Universities = append(prov.Universities, University{
				Name:       u.Name,
				Phone:      u.Phone,
				Fax:        u.Fax,
				Website:    u.Website,
				Email:      u.Email,
				Address:    u.Address,
				Rector:     u.Rector,
				ProvinceID: rec.ID,
				Index:      i,
			})
		}
		provinces = append(provinces, prov)
	}
	return provinces
}
