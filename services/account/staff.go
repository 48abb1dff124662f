package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"bookfair/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultAccountService) RegisterStaff(ctx context.Context, req models.StaffRegistration, registrationKey string) (*models.Staff, *models.AuthResult, error) {
	if s.StaffRegistrationKey == "" ||
		subtle.ConstantTimeCompare([]byte(registrationKey), []byte(s.StaffRegistrationKey)) != 1 {
		return nil, nil, models.NewError(models.CodeForbidden, "staff registration is not permitted")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.FullName == "" {
		return nil, nil, models.NewError(models.CodeValidation, "username and full name are required")
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, nil, err
	}
	role, err := parseStaffRole(req.Role)
	if err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	staff := &models.Staff{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Staff.Create(ctx, staff); err != nil {
		return nil, nil, err
	}
	s.Logger.Info("Staff registered", zap.String("staffID", staff.ID), zap.String("role", string(role)))

	auth, err := s.issue(models.StaffActor(staff.ID))
	if err != nil {
		return nil, nil, err
	}
	return staff, auth, nil
}

func (s *DefaultAccountService) AuthenticateStaff(ctx context.Context, email, password string) (*models.Staff, *models.AuthResult, error) {
	staff, err := s.Staff.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.NewError(models.CodeUnauthorized, "invalid email or password")
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, nil, models.NewError(models.CodeUnauthorized, "invalid email or password")
	}
	if !staff.IsActive {
		return nil, nil, models.NewError(models.CodeForbidden, "staff account is inactive")
	}
	auth, err := s.issue(models.StaffActor(staff.ID))
	if err != nil {
		return nil, nil, err
	}
	return staff, auth, nil
}

func (s *DefaultAccountService) GetStaff(ctx context.Context, staffID string) (*models.Staff, error) {
	return s.Staff.GetByID(ctx, staffID)
}

func parseStaffRole(s string) (models.StaffRole, error) {
	switch role := models.StaffRole(strings.ToLower(strings.TrimSpace(s))); role {
	case "":
		return models.StaffMember, nil
	case models.StaffAdmin, models.StaffMember, models.StaffManager:
		return role, nil
	default:
		return "", models.NewError(models.CodeValidation, "unknown staff role %q", s)
	}
}
