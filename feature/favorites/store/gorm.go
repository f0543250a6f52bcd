package store

import (
	"context"
	"fmt"

	"unilist/core/database"
	"unilist/feature/universities/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps favorites in a SQL table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the favorites table.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&FavoriteUniversity{}); err != nil {
		return fmt.Errorf("failed to migrate favorites table: %w", err)
	}
	return nil
}

// Check returns the required columns missing from the favorites table.
func (s *GormStore) Check() ([]string, error) {
	return database.MissingColumns(s.db, FavoriteUniversity{}.TableName(), RequiredColumns)
}

// Add inserts u or overwrites the stored record with the same name.
func (s *GormStore) Add(ctx context.Context, u models.University) error {
	if u.Name == "" {
		return ErrInvalidName
	}
	row := fromUniversity(u)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"phone", "fax", "website", "email", "address", "rector",
			"province_id", "position", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite %s: %w", u.Name, err)
	}
	return nil
}

// Remove deletes the record named u.Name. Removing an absent name is not
// an error.
func (s *GormStore) Remove(ctx context.Context, u models.University) error {
	err := s.db.WithContext(ctx).Where("name = ?", u.Name).Delete(&FavoriteUniversity{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite %s: %w", u.Name, err)
	}
	return nil
}

// GetAll returns every favorite in insertion order.
func (s *GormStore) GetAll(ctx context.Context) ([]models.University, error) {
	var rows []FavoriteUniversity
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	out := make([]models.University, len(rows))
	for i, r := range rows {
		out[i] = r.ToUniversity()
	}
	return out, nil
}

// IsFavorite reports whether a record named u.Name exists.
func (s *GormStore) IsFavorite(ctx context.Context, u models.University) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&FavoriteUniversity{}).Where("name = ?", u.Name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up favorite %s: %w", u.Name, err)
	}
	return count > 0, nil
}
