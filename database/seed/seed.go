package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookfair/database/repository"
	"bookfair/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultStalls is the floor plan loaded into an empty catalog.
var DefaultStalls = []models.Stall{
	{Name: "A1", Size: models.SizeSmall, LocationX: 10, LocationY: 10, Dimensions: "10x10 sq ft", Price: 500},
	{Name: "A2", Size: models.SizeSmall, LocationX: 30, LocationY: 10, Dimensions: "10x10 sq ft", Price: 500},
	{Name: "A3", Size: models.SizeSmall, LocationX: 50, LocationY: 10, Dimensions: "10x10 sq ft", Price: 500},
	{Name: "B1", Size: models.SizeSmall, LocationX: 70, LocationY: 10, Dimensions: "10x10 sq ft", Price: 500},
	{Name: "B2", Size: models.SizeSmall, LocationX: 90, LocationY: 10, Dimensions: "10x10 sq ft", Price: 500},
	{Name: "C1", Size: models.SizeMedium, LocationX: 10, LocationY: 50, Dimensions: "15x15 sq ft", Price: 1000},
	{Name: "C2", Size: models.SizeMedium, LocationX: 40, LocationY: 50, Dimensions: "15x15 sq ft", Price: 1000},
	{Name: "C3", Size: models.SizeMedium, LocationX: 70, LocationY: 50, Dimensions: "15x15 sq ft", Price: 1000},
	{Name: "D1", Size: models.SizeMedium, LocationX: 10, LocationY: 80, Dimensions: "15x15 sq ft", Price: 1000},
	{Name: "D2", Size: models.SizeMedium, LocationX: 40, LocationY: 80, Dimensions: "15x15 sq ft", Price: 1000},
	{Name: "E1", Size: models.SizeLarge, LocationX: 70, LocationY: 80, Dimensions: "20x20 sq ft", Price: 1500},
	{Name: "E2", Size: models.SizeLarge, LocationX: 10, LocationY: 120, Dimensions: "20x20 sq ft", Price: 1500},
	{Name: "F1", Size: models.SizeLarge, LocationX: 50, LocationY: 120, Dimensions: "20x20 sq ft", Price: 1500},
}

// DefaultGenres is the genre catalog loaded when none exist.
var DefaultGenres = []models.Genre{
	{Name: "Fiction", Description: "Novels and short stories", Icon: "📖"},
	{Name: "Non-Fiction", Description: "Educational and factual books", Icon: "📚"},
	{Name: "Self-Help", Description: "Personal development books", Icon: "🌟"},
	{Name: "Children", Description: "Books for children", Icon: "👶"},
	{Name: "Science", Description: "Science and technology books", Icon: "🔬"},
	{Name: "History", Description: "Historical books", Icon: "🏛️"},
	{Name: "Biography", Description: "Life stories and memoirs", Icon: "👤"},
	{Name: "Poetry", Description: "Poetry and verse", Icon: "✍️"},
	{Name: "Art & Design", Description: "Art and design books", Icon: "🎨"},
	{Name: "Business", Description: "Business and economics", Icon: "💼"},
}

const adminEmail = "admin@bookfair.lk"

// Result counts what Run inserted.
type Result struct {
	Stalls int
	Genres int
	Admin  bool
}

// Run fills empty stores with the default catalog and an admin account.
// Stores that already hold data are left alone, so Run is safe to repeat.
func Run(ctx context.Context, repos *repository.Repositories, adminPassword string, logger *zap.Logger) (Result, error) {
	var res Result
	now := time.Now()

	count, err := repos.Stalls.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("count stalls: %w", err)
	}
	if count == 0 {
		for _, st := range DefaultStalls {
			st.ID = st.Name
			st.CreatedAt = now
			if err := repos.Stalls.Create(ctx, &st); err != nil {
				return res, fmt.Errorf("seed stall %s: %w", st.Name, err)
			}
			res.Stalls++
		}
		logger.Info("Seeded stalls", zap.Int("count", res.Stalls))
	}

	genres, err := repos.Genres.GetAll(ctx)
	if err != nil {
		return res, fmt.Errorf("list genres: %w", err)
	}
	if len(genres) == 0 {
		for _, g := range DefaultGenres {
			g.ID = uuid.New().String()
			if err := repos.Genres.Create(ctx, &g); err != nil {
				return res, fmt.Errorf("seed genre %s: %w", g.Name, err)
			}
			res.Genres++
		}
		logger.Info("Seeded genres", zap.Int("count", res.Genres))
	}

	if adminPassword == "" {
		return res, nil
	}
	if _, err := repos.Staff.GetByEmail(ctx, adminEmail); err == nil {
		return res, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return res, fmt.Errorf("look up admin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return res, err
	}
	admin := &models.Staff{
		ID:           uuid.New().String(),
		Username:     "admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		FullName:     "Admin User",
		Role:         models.StaffAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repos.Staff.Create(ctx, admin); err != nil {
		return res, fmt.Errorf("seed admin: %w", err)
	}
	res.Admin = true
	logger.Info("Seeded admin staff account", zap.String("email", adminEmail))
	return res, nil
}
