package favorites

import (
	"context"
	"errors"
	"strings"

	"unilist/feature/favorites/store"
	"unilist/feature/universities/models"

	"go.uber.org/zap"
)

// ErrNotFound is returned when removing a name that is not a favorite.
var ErrNotFound = errors.New("favorite not found")

// AddRequest is the body of POST /favorites.
type AddRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Phone      string `json:"phone" validate:"max=64"`
	Fax        string `json:"fax" validate:"max=64"`
	Website    string `json:"website" validate:"max=255"`
	Email      string `json:"email" validate:"max=255"`
	Address    string `json:"address" validate:"max=512"`
	Rector     string `json:"rector" validate:"max=255"`
	ProvinceID int    `json:"province_id" validate:"gte=0"`
	Index      int    `json:"index" validate:"gte=0"`
}

// University converts the request, filling blank contact fields with the
// not-available marker.
func (r AddRequest) University() models.University {
	orNA := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return models.NotAvailable
		}
		return strings.TrimSpace(v)
	}
	return models.University{
		Name:       strings.TrimSpace(r.Name),
		Phone:      orNA(r.Phone),
		Fax:        orNA(r.Fax),
		Website:    orNA(r.Website),
		Email:      orNA(r.Email),
		Address:    orNA(r.Address),
		Rector:     orNA(r.Rector),
		ProvinceID: r.ProvinceID,
		Index:      r.Index,
	}
}

// Service exposes the favorites store.
type Service struct {
	store  store.Store
	logger *zap.Logger
}

// NewService creates a new favorites service.
func NewService(s store.Store, logger *zap.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// List returns every favorite.
func (s *Service) List(ctx context.Context) ([]models.University, error) {
	return s.store.GetAll(ctx)
}

// Add stores the requested university and returns it.
func (s *Service) Add(ctx context.Context, req AddRequest) (models.University, error) {
	u := req.University()
	if err := s.store.Add(ctx, u); err != nil {
		return models.University{}, err
	}
	s.logger.Info("Favorite added", zap.String("university", u.Name))
	return u, nil
}

// Remove deletes the favorite called name.
func (s *Service) Remove(ctx context.Context, name string) error {
	u := models.University{Name: name}
	ok, err := s.store.IsFavorite(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := s.store.Remove(ctx, u); err != nil {
		return err
	}
	s.logger.Info("Favorite removed", zap.String("university", name))
	return nil
}
