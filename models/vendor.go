package models

import (
	"strings"
	"time"
)

// BusinessType is the enumerated kind of a vendor business.
type BusinessType string

const (
	BusinessPublisher   BusinessType = "Publisher"
	BusinessVendor      BusinessType = "Vendor"
	BusinessDistributor BusinessType = "Distributor"
	BusinessOther       BusinessType = "Other"
)

// ParseBusinessType matches the enumerated names case-insensitively.
func ParseBusinessType(s string) (BusinessType, error) {
	for _, bt := range []BusinessType{BusinessPublisher, BusinessVendor, BusinessDistributor, BusinessOther} {
		if strings.EqualFold(strings.TrimSpace(s), string(bt)) {
			return bt, nil
		}
	}
	return "", NewError(CodeValidation, "unknown business type %q", s)
}

// Vendor is a registered exhibitor account.
type Vendor struct {
	ID           string       `bson:"id" json:"id"`
	Username     string       `bson:"username" json:"username"`
	Email        string       `bson:"email" json:"email"`
	PasswordHash string       `bson:"password_hash" json:"-"`
	BusinessName string       `bson:"business_name" json:"business_name"`
	BusinessType BusinessType `bson:"business_type" json:"business_type"`
	Phone        string       `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string       `bson:"address,omitempty" json:"address,omitempty"`
	City         string       `bson:"city,omitempty" json:"city,omitempty"`
	Country      string       `bson:"country,omitempty" json:"country,omitempty"`
	GenreIDs     []string     `bson:"genre_ids" json:"genre_ids"`
	FCMToken     string       `bson:"fcm_token,omitempty" json:"-"`
	IsActive     bool         `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

// Clone copies the genre slice.
func (v Vendor) Clone() Vendor {
	v.GenreIDs = append([]string(nil), v.GenreIDs...)
	return v
}

// VendorRegistration is the input to vendor sign-up.
type VendorRegistration struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	BusinessName string `json:"business_name" binding:"required"`
	BusinessType string `json:"business_type" binding:"required"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// VendorProfileUpdate carries the mutable profile fields.
type VendorProfileUpdate struct {
	BusinessName *string `json:"business_name,omitempty"`
	BusinessType *string `json:"business_type,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	Country      *string `json:"country,omitempty"`
	FCMToken     *string `json:"fcm_token,omitempty"`
}

// Genre is a display genre a vendor can associate with its stall.
type Genre struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string `bson:"icon,omitempty" json:"icon,omitempty"`
}
