package account

import (
	"context"
	"strings"
	"time"

	"bookfair/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultAccountService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.Genres.GetAll(ctx)
}

func (s *DefaultAccountService) GetGenre(ctx context.Context, genreID string) (*models.Genre, error) {
	return s.Genres.GetByID(ctx, genreID)
}

// CreateGenre adds a genre to the catalog. Names are unique.
func (s *DefaultAccountService) CreateGenre(ctx context.Context, genre models.Genre) (*models.Genre, error) {
	genre.Name = strings.TrimSpace(genre.Name)
	if genre.Name == "" {
		return nil, models.NewError(models.CodeValidation, "genre name is required")
	}
	genre.ID = uuid.New().String()
	genre.Description = strings.TrimSpace(genre.Description)
	if err := s.Genres.Create(ctx, &genre); err != nil {
		return nil, err
	}
	s.Logger.Info("Genre created", zap.String("genreID", genre.ID), zap.String("name", genre.Name))
	return &genre, nil
}

// VendorGenres resolves the vendor's genre IDs, skipping any that no longer exist.
func (s *DefaultAccountService) VendorGenres(ctx context.Context, vendorID string) ([]models.Genre, error) {
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, vendor.GenreIDs)
}

// SetGenres replaces the vendor's genre selection. Unknown IDs fail the call.
func (s *DefaultAccountService) SetGenres(ctx context.Context, vendorID string, genreIDs []string) ([]models.Genre, error) {
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(genreIDs))
	ids := make([]string, 0, len(genreIDs))
	for _, id := range genreIDs {
		if seen[id] {
			continue
		}
		if _, err := s.Genres.GetByID(ctx, id); err != nil {
			return nil, err
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return s.saveGenres(ctx, vendor, ids)
}

func (s *DefaultAccountService) AddGenre(ctx context.Context, vendorID, genreID string) ([]models.Genre, error) {
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Genres.GetByID(ctx, genreID); err != nil {
		return nil, err
	}
	for _, id := range vendor.GenreIDs {
		if id == genreID {
			return nil, models.NewError(models.CodeConflict, "genre %s is already selected", genreID)
		}
	}
	return s.saveGenres(ctx, vendor, append(vendor.GenreIDs, genreID))
}

func (s *DefaultAccountService) RemoveGenre(ctx context.Context, vendorID, genreID string) ([]models.Genre, error) {
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(vendor.GenreIDs))
	for _, id := range vendor.GenreIDs {
		if id != genreID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(vendor.GenreIDs) {
		return nil, models.NewError(models.CodeNotFound, "genre %s is not selected", genreID)
	}
	return s.saveGenres(ctx, vendor, kept)
}

func (s *DefaultAccountService) saveGenres(ctx context.Context, vendor *models.Vendor, ids []string) ([]models.Genre, error) {
	vendor.GenreIDs = ids
	vendor.UpdatedAt = time.Now()
	if err := s.Vendors.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return s.resolve(ctx, ids)
}

func (s *DefaultAccountService) resolve(ctx context.Context, ids []string) ([]models.Genre, error) {
	out := make([]models.Genre, 0, len(ids))
	for _, id := range ids {
		g, err := s.Genres.GetByID(ctx, id)
		if err != nil {
			if models.ErrorCode(err) == models.CodeNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}
