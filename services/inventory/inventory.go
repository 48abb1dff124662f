package inventory

import (
	"context"
	"strings"
	"time"

	"bookfair/database/repository"
	"bookfair/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Occupancy is the ledger view the inventory projects is_reserved from.
type Occupancy interface {
	ActiveIndex(ctx context.Context) (map[string]models.ReservationStatus, error)
}

// Service answers catalog queries and maintains the stall catalog.
type Service struct {
	Stalls    repository.StallRepository
	Occupancy Occupancy
	Logger    *zap.Logger
}

func NewService(stalls repository.StallRepository, occupancy Occupancy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Stalls: stalls, Occupancy: occupancy, Logger: logger}
}

// Get returns one stall with its current occupancy.
func (s *Service) Get(ctx context.Context, stallID string) (*models.StallView, error) {
	stall, err := s.Stalls.GetByID(ctx, stallID)
	if err != nil {
		return nil, err
	}
	index, err := s.Occupancy.ActiveIndex(ctx)
	if err != nil {
		return nil, err
	}
	view := project(*stall, index)
	return &view, nil
}

// ListAll returns every stall with its current occupancy.
func (s *Service) ListAll(ctx context.Context) ([]models.StallView, error) {
	stalls, err := s.Stalls.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, stalls)
}

// ListBySize returns the stalls of one size category.
func (s *Service) ListBySize(ctx context.Context, size string) ([]models.StallView, error) {
	parsed, err := models.ParseStallSize(size)
	if err != nil {
		return nil, err
	}
	stalls, err := s.Stalls.GetBySize(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, stalls)
}

// Create adds a stall to the catalog.
func (s *Service) Create(ctx context.Context, stall models.Stall) (*models.StallView, error) {
	stall.Name = strings.TrimSpace(stall.Name)
	if err := stall.Validate(); err != nil {
		return nil, err
	}
	if stall.ID == "" {
		stall.ID = uuid.New().String()
	}
	stall.CreatedAt = time.Now()
	if err := s.Stalls.Create(ctx, &stall); err != nil {
		return nil, err
	}
	s.Logger.Info("Stall created", zap.String("stallID", stall.ID), zap.String("name", stall.Name))
	return &models.StallView{Stall: stall}, nil
}

// Update changes a stall's catalog attributes. Occupancy is unaffected.
func (s *Service) Update(ctx context.Context, stallID string, patch models.StallUpdate) (*models.StallView, error) {
	current, err := s.Stalls.GetByID(ctx, stallID)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)
	updated.Name = strings.TrimSpace(updated.Name)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.Stalls.Update(ctx, &updated); err != nil {
		return nil, err
	}
	s.Logger.Info("Stall updated", zap.String("stallID", stallID))
	return s.Get(ctx, stallID)
}

// Stats summarises how many stalls are still bookable.
func (s *Service) Stats(ctx context.Context) (models.StallStats, error) {
	views, err := s.ListAll(ctx)
	if err != nil {
		return models.StallStats{}, err
	}
	stats := models.StallStats{Total: len(views)}
	for _, v := range views {
		if v.IsReserved {
			stats.Reserved++
		}
	}
	stats.Available = stats.Total - stats.Reserved
	return stats, nil
}

func (s *Service) views(ctx context.Context, stalls []models.Stall) ([]models.StallView, error) {
	index, err := s.Occupancy.ActiveIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.StallView, 0, len(stalls))
	for _, st := range stalls {
		out = append(out, project(st, index))
	}
	return out, nil
}

func project(stall models.Stall, index map[string]models.ReservationStatus) models.StallView {
	status, reserved := index[stall.ID]
	return models.StallView{Stall: stall, IsReserved: reserved, ReservationStatus: status}
}
