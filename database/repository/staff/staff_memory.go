package staffRepo

import (
	"context"
	"strings"
	"sync"

	"bookfair/models"
)

// MemoryStaffRepo implements StaffRepository in process memory.
type MemoryStaffRepo struct {
	mu    sync.RWMutex
	staff map[string]models.Staff
}

func NewMemoryStaffRepo() *MemoryStaffRepo {
	return &MemoryStaffRepo{staff: make(map[string]models.Staff)}
}

func (r *MemoryStaffRepo) GetByID(_ context.Context, id string) (*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, models.NewError(models.CodeNotFound, "staff %s not found", id)
	}
	return &s, nil
}

func (r *MemoryStaffRepo) GetByEmail(_ context.Context, email string) (*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.staff {
		if strings.EqualFold(s.Email, email) {
			return &s, nil
		}
	}
	return nil, models.NewError(models.CodeNotFound, "staff with email %s not found", email)
}

func (r *MemoryStaffRepo) Create(_ context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if s.ID == staff.ID || strings.EqualFold(s.Email, staff.Email) || strings.EqualFold(s.Username, staff.Username) {
			return models.NewError(models.CodeConflict, "a staff member with this email or username already exists")
		}
	}
	r.staff[staff.ID] = *staff
	return nil
}
