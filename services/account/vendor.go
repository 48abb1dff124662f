package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookfair/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultAccountService) RegisterVendor(ctx context.Context, req models.VendorRegistration) (*models.Vendor, *models.AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	if req.Username == "" || req.Email == "" || req.Password == "" || req.BusinessName == "" {
		return nil, nil, models.NewError(models.CodeValidation, "username, email, password and business name are required")
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, nil, err
	}
	businessType, err := models.ParseBusinessType(req.BusinessType)
	if err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	vendor := &models.Vendor{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		BusinessName: req.BusinessName,
		BusinessType: businessType,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		GenreIDs:     []string{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Vendors.Create(ctx, vendor); err != nil {
		return nil, nil, err
	}
	s.Logger.Info("Vendor registered", zap.String("vendorID", vendor.ID), zap.String("username", vendor.Username))

	auth, err := s.issue(models.VendorActor(vendor.ID))
	if err != nil {
		return nil, nil, err
	}
	return vendor, auth, nil
}

func (s *DefaultAccountService) AuthenticateVendor(ctx context.Context, email, password string) (*models.Vendor, *models.AuthResult, error) {
	vendor, err := s.Vendors.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.NewError(models.CodeUnauthorized, "invalid email or password")
		}
		s.Logger.Error("AuthenticateVendor: failed to fetch vendor", zap.Error(err))
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(password)); err != nil {
		return nil, nil, models.NewError(models.CodeUnauthorized, "invalid email or password")
	}
	if !vendor.IsActive {
		return nil, nil, models.NewError(models.CodeForbidden, "vendor account is inactive")
	}
	auth, err := s.issue(models.VendorActor(vendor.ID))
	if err != nil {
		return nil, nil, err
	}
	return vendor, auth, nil
}

func (s *DefaultAccountService) GetVendor(ctx context.Context, vendorID string) (*models.Vendor, error) {
	return s.Vendors.GetByID(ctx, vendorID)
}

// ListVendors returns every vendor account, oldest first.
func (s *DefaultAccountService) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	return s.Vendors.GetAll(ctx)
}

func (s *DefaultAccountService) UpdateProfile(ctx context.Context, vendorID string, update models.VendorProfileUpdate) (*models.Vendor, error) {
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if update.BusinessName != nil {
		name := strings.TrimSpace(*update.BusinessName)
		if name == "" {
			return nil, models.NewError(models.CodeValidation, "business name cannot be empty")
		}
		vendor.BusinessName = name
	}
	if update.BusinessType != nil {
		bt, err := models.ParseBusinessType(*update.BusinessType)
		if err != nil {
			return nil, err
		}
		vendor.BusinessType = bt
	}
	if update.Phone != nil {
		vendor.Phone = *update.Phone
	}
	if update.Address != nil {
		vendor.Address = *update.Address
	}
	if update.City != nil {
		vendor.City = *update.City
	}
	if update.Country != nil {
		vendor.Country = *update.Country
	}
	if update.FCMToken != nil {
		vendor.FCMToken = *update.FCMToken
	}
	vendor.UpdatedAt = time.Now()

	if err := s.Vendors.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *DefaultAccountService) ChangePassword(ctx context.Context, vendorID, currentPassword, newPassword string) error {
	vendor, err := s.Vendors.GetByID(ctx, vendorID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(currentPassword)); err != nil {
		return models.NewError(models.CodeUnauthorized, "current password is incorrect")
	}
	if len(newPassword) < minPasswordLength {
		return models.NewError(models.CodeValidation, "password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	vendor.PasswordHash = string(hash)
	vendor.UpdatedAt = time.Now()
	return s.Vendors.Update(ctx, vendor)
}

func (s *DefaultAccountService) issue(actor models.Actor) (*models.AuthResult, error) {
	token, err := s.Tokens.GenerateToken(actor)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: token, Actor: actor}, nil
}

func validateCredentials(email, password string) error {
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return models.NewError(models.CodeValidation, "invalid email address %q", email)
	}
	if len(password) < minPasswordLength {
		return models.NewError(models.CodeValidation, "password must be at least %d characters", minPasswordLength)
	}
	return nil
}
