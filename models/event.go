package models

import "time"

// EventType names the vendor-facing transition events.
type EventType string

const (
	EventReservationConfirmed EventType = "ReservationConfirmed"
	EventReservationRejected  EventType = "ReservationRejected"
	EventReservationCancelled EventType = "ReservationCancelled"
)

// EventTypeFor maps a target status to its event, if the transition emits one.
func EventTypeFor(to ReservationStatus) (EventType, bool) {
	switch to {
	case StatusConfirmed:
		return EventReservationConfirmed, true
	case StatusRejected:
		return EventReservationRejected, true
	case StatusCancelled:
		return EventReservationCancelled, true
	}
	return "", false
}

// ReservationEvent is an outbox row. Delivery fields are bookkeeping for the
// dispatcher and are never read by the allocation engine.
type ReservationEvent struct {
	ID              string     `bson:"id" json:"id"`
	Type            EventType  `bson:"type" json:"type"`
	ReservationID   string     `bson:"reservation_id" json:"reservation_id"`
	VendorID        string     `bson:"vendor_id" json:"vendor_id"`
	VendorEmail     string     `bson:"vendor_email,omitempty" json:"vendor_email,omitempty"`
	VendorName      string     `bson:"vendor_name,omitempty" json:"vendor_name,omitempty"`
	StallID         string     `bson:"stall_id" json:"stall_id"`
	StallName       string     `bson:"stall_name,omitempty" json:"stall_name,omitempty"`
	Reason          string     `bson:"reason,omitempty" json:"reason,omitempty"`
	CredentialToken string     `bson:"credential_token,omitempty" json:"credential_token,omitempty"`
	OccurredAt      time.Time  `bson:"occurred_at" json:"occurred_at"`
	Delivered       bool       `bson:"delivered" json:"delivered"`
	DeliveredAt     *time.Time `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	Attempts        int        `bson:"attempts" json:"attempts"`
	LastError       string     `bson:"last_error,omitempty" json:"last_error,omitempty"`
}
