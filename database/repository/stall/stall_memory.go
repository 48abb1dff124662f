package stallRepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bookfair/models"
)

// MemoryStallRepo implements StallRepository in process memory.
type MemoryStallRepo struct {
	mu     sync.RWMutex
	stalls map[string]models.Stall
}

func NewMemoryStallRepo() *MemoryStallRepo {
	return &MemoryStallRepo{stalls: make(map[string]models.Stall)}
}

func (r *MemoryStallRepo) GetByID(_ context.Context, id string) (*models.Stall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stalls[id]
	if !ok {
		return nil, models.NewError(models.CodeNotFound, "stall %s not found", id)
	}
	return &s, nil
}

func (r *MemoryStallRepo) GetByName(_ context.Context, name string) (*models.Stall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.stalls {
		if strings.EqualFold(s.Name, name) {
			return &s, nil
		}
	}
	return nil, models.NewError(models.CodeNotFound, "stall named %s not found", name)
}

func (r *MemoryStallRepo) GetAll(ctx context.Context) ([]models.Stall, error) {
	return r.filter(func(models.Stall) bool { return true }), nil
}

func (r *MemoryStallRepo) GetBySize(_ context.Context, size models.StallSize) ([]models.Stall, error) {
	return r.filter(func(s models.Stall) bool { return s.Size == size }), nil
}

func (r *MemoryStallRepo) filter(keep func(models.Stall) bool) []models.Stall {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Stall, 0, len(r.stalls))
	for _, s := range r.stalls {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *MemoryStallRepo) Create(_ context.Context, stall *models.Stall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stalls[stall.ID]; exists {
		return models.NewError(models.CodeConflict, "stall %s already exists", stall.ID)
	}
	if r.nameTakenLocked(stall.Name, stall.ID) {
		return models.NewError(models.CodeConflict, "stall name %s already exists", stall.Name)
	}
	r.stalls[stall.ID] = *stall
	return nil
}

func (r *MemoryStallRepo) Update(_ context.Context, stall *models.Stall) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stalls[stall.ID]; !exists {
		return models.NewError(models.CodeNotFound, "stall %s not found", stall.ID)
	}
	if r.nameTakenLocked(stall.Name, stall.ID) {
		return models.NewError(models.CodeConflict, "stall name %s already exists", stall.Name)
	}
	r.stalls[stall.ID] = *stall
	return nil
}

func (r *MemoryStallRepo) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stalls), nil
}

func (r *MemoryStallRepo) nameTakenLocked(name, exceptID string) bool {
	for id, s := range r.stalls {
		if id != exceptID && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}
