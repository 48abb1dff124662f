package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ReservationStatus is the closed set of reservation lifecycle states.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
)

// transitions is the lifecycle table. Rejected and Cancelled are terminal.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusRejected:  nil,
	StatusCancelled: nil,
}

// ParseReservationStatus rejects anything outside the enumerated states.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[status]; !ok {
		return "", NewError(CodeValidation, "unknown reservation status %q", s)
	}
	return status, nil
}

func (s ReservationStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Active reports whether the status occupies inventory.
func (s ReservationStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s ReservationStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UnmarshalJSON refuses unknown status strings.
func (s *ReservationStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status, err := ParseReservationStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// StatusChange is one entry of a reservation's append-only history.
type StatusChange struct {
	From   ReservationStatus `bson:"from,omitempty" json:"from,omitempty"`
	To     ReservationStatus `bson:"to" json:"to"`
	Actor  Actor             `bson:"actor" json:"actor"`
	Reason string            `bson:"reason,omitempty" json:"reason,omitempty"`
	At     time.Time         `bson:"at" json:"at"`
}

// Reservation is a vendor's claim on a stall.
type Reservation struct {
	ID                string            `bson:"id" json:"id"`
	VendorID          string            `bson:"vendor_id" json:"vendor_id"`
	StallID           string            `bson:"stall_id" json:"stall_id"`
	Status            ReservationStatus `bson:"status" json:"status"`
	Note              string            `bson:"note,omitempty" json:"note,omitempty"`
	CredentialToken   string            `bson:"credential_token,omitempty" json:"credential_token,omitempty"`
	CredentialRevoked bool              `bson:"credential_revoked,omitempty" json:"credential_revoked,omitempty"`
	RejectionReason   string            `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`
	ConfirmedAt       *time.Time        `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	RejectedAt        *time.Time        `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`
	CancelledAt       *time.Time        `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	UpdatedAt         time.Time         `bson:"updated_at" json:"updated_at"`
	History           []StatusChange    `bson:"history" json:"history"`
}

// Clone returns a deep copy so callers never share history slices or
// timestamp pointers with the ledger.
func (r Reservation) Clone() Reservation {
	out := r
	out.History = append([]StatusChange(nil), r.History...)
	out.ConfirmedAt = cloneTime(r.ConfirmedAt)
	out.RejectedAt = cloneTime(r.RejectedAt)
	out.CancelledAt = cloneTime(r.CancelledAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Transition describes one state change submitted to the ledger.
type Transition struct {
	From   ReservationStatus
	To     ReservationStatus
	Actor  Actor
	Reason string
	At     time.Time
	// CredentialToken is stored when To is Confirmed.
	CredentialToken string
	// RevokeCredential marks an existing credential unverifiable.
	RevokeCredential bool
	// Event is committed to the outbox together with the state change.
	Event *ReservationEvent
}

// Apply validates t against r and returns the resulting record. r is not
// modified.
func (t Transition) Apply(r Reservation) (Reservation, error) {
	if r.Status != t.From {
		return r, NewError(CodeInvalidTransition, "reservation %s is %s, expected %s", r.ID, r.Status, t.From)
	}
	if !CanTransition(t.From, t.To) {
		return r, NewError(CodeInvalidTransition, "cannot move reservation %s from %s to %s", r.ID, t.From, t.To)
	}
	if t.To == StatusConfirmed && t.CredentialToken == "" {
		return r, NewError(CodeInvalidTransition, "confirming reservation %s requires a credential", r.ID)
	}

	out := r.Clone()
	at := t.At
	out.Status = t.To
	out.UpdatedAt = at
	switch t.To {
	case StatusConfirmed:
		out.ConfirmedAt = &at
		out.CredentialToken = t.CredentialToken
		out.CredentialRevoked = false
	case StatusRejected:
		out.RejectedAt = &at
		out.RejectionReason = t.Reason
	case StatusCancelled:
		out.CancelledAt = &at
	}
	if t.RevokeCredential && out.CredentialToken != "" {
		out.CredentialRevoked = true
	}
	out.History = append(out.History, StatusChange{
		From:   t.From,
		To:     t.To,
		Actor:  t.Actor,
		Reason: t.Reason,
		At:     at,
	})
	return out, nil
}
