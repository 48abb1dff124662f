package models

import (
	"fmt"
	"strings"
	"time"
)

// StallSize is the enumerated size category of a stall.
type StallSize string

const (
	SizeSmall  StallSize = "small"
	SizeMedium StallSize = "medium"
	SizeLarge  StallSize = "large"
)

// StallSizes lists every size in reporting order.
var StallSizes = []StallSize{SizeSmall, SizeMedium, SizeLarge}

// ParseStallSize accepts a size name in any letter case.
func ParseStallSize(s string) (StallSize, error) {
	switch size := StallSize(strings.ToLower(strings.TrimSpace(s))); size {
	case SizeSmall, SizeMedium, SizeLarge:
		return size, nil
	}
	return "", NewError(CodeValidation, "unknown stall size %q", s)
}

func (s StallSize) Valid() bool {
	_, err := ParseStallSize(string(s))
	return err == nil
}

// Stall is a physical exhibition space. It carries no reservation state;
// occupancy is always projected from the reservation ledger.
type Stall struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Size       StallSize `bson:"size" json:"size"`
	LocationX  float64   `bson:"location_x" json:"location_x"`
	LocationY  float64   `bson:"location_y" json:"location_y"`
	Dimensions string    `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Price      float64   `bson:"price" json:"price"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Validate checks the catalog attributes of a stall.
func (s Stall) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewError(CodeValidation, "stall name is required")
	}
	if !s.Size.Valid() {
		return NewError(CodeValidation, "unknown stall size %q", s.Size)
	}
	if s.Price <= 0 {
		return NewError(CodeValidation, "stall price must be positive, got %v", s.Price)
	}
	return nil
}

// StallView is a stall together with its occupancy, computed at read time.
type StallView struct {
	Stall
	IsReserved        bool              `json:"is_reserved"`
	ReservationStatus ReservationStatus `json:"reservation_status,omitempty"`
}

// StallUpdate is a partial update of a stall's catalog attributes.
type StallUpdate struct {
	Name       *string    `json:"name,omitempty"`
	Size       *StallSize `json:"size,omitempty"`
	LocationX  *float64   `json:"location_x,omitempty"`
	LocationY  *float64   `json:"location_y,omitempty"`
	Dimensions *string    `json:"dimensions,omitempty"`
	Price      *float64   `json:"price,omitempty"`
}

// Apply returns a copy of s with the non-nil fields of u applied.
func (u StallUpdate) Apply(s Stall) Stall {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Size != nil {
		s.Size = *u.Size
	}
	if u.LocationX != nil {
		s.LocationX = *u.LocationX
	}
	if u.LocationY != nil {
		s.LocationY = *u.LocationY
	}
	if u.Dimensions != nil {
		s.Dimensions = *u.Dimensions
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
	return s
}

func (s Stall) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Size)
}
