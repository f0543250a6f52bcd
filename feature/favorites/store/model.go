package store

import (
	"time"

	"unilist/feature/universities/models"
)

// FavoriteUniversity is the 'favorite_universities' table.
type FavoriteUniversity struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
	Phone      string    `gorm:"column:phone;type:varchar(64)"`
	Fax        string    `gorm:"column:fax;type:varchar(64)"`
	Website    string    `gorm:"column:website;type:varchar(255)"`
	Email      string    `gorm:"column:email;type:varchar(255)"`
	Address    string    `gorm:"column:address;type:varchar(512)"`
	Rector     string    `gorm:"column:rector;type:varchar(255)"`
	ProvinceID int       `gorm:"column:province_id"`
	Position   int       `gorm:"column:position"` // index inside the province
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (FavoriteUniversity) TableName() string {
	return "favorite_universities"
}

// RequiredColumns lists the columns the store reads and writes.
var RequiredColumns = []string{
	"id", "name", "phone", "fax", "website", "email", "address", "rector",
	"province_id", "position", "created_at", "updated_at",
}

func fromUniversity(u models.University) FavoriteUniversity {
	return FavoriteUniversity{
		Name:       u.Name,
		Phone:      u.Phone,
		Fax:        u.Fax,
		Website:    u.Website,
		Email:      u.Email,
		Address:    u.Address,
		Rector:     u.Rector,
		ProvinceID: u.ProvinceID,
		Position:   u.Index,
	}
}

// ToUniversity converts the row into the domain type with view flags unset.
func (f FavoriteUniversity) ToUniversity() models.University {
	return models.University{
		Name:       f.Name,
		Phone:      f.Phone,
		Fax:        f.Fax,
		Website:    f.Website,
		Email:      f.Email,
		Address:    f.Address,
		Rector:     f.Rector,
		ProvinceID: f.ProvinceID,
		Index:      f.Position,
	}
}
