package notification

import (
	"fmt"

	"bookfair/models"
	"bookfair/services/credential"
)

// Message is the vendor-facing rendering of an event.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Compose renders ev for a push or log line.
func Compose(ev models.ReservationEvent) Message {
	stall := ev.StallName
	if stall == "" {
		stall = ev.StallID
	}
	data := map[string]string{
		"type":          string(ev.Type),
		"eventId":       ev.ID,
		"reservationId": ev.ReservationID,
		"stallId":       ev.StallID,
	}

	var msg Message
	switch ev.Type {
	case models.EventReservationConfirmed:
		code := credential.DisplayCode(ev.CredentialToken)
		data["entryCode"] = code
		msg = Message{
			Title: "Your stall reservation is confirmed",
			Body:  fmt.Sprintf("Stall %s is yours. Show entry code %s at the gate.", stall, code),
		}
	case models.EventReservationRejected:
		data["reason"] = ev.Reason
		msg = Message{
			Title: "Your stall reservation was not approved",
			Body:  fmt.Sprintf("Your request for stall %s was rejected: %s", stall, ev.Reason),
		}
	case models.EventReservationCancelled:
		msg = Message{
			Title: "Your stall reservation was cancelled",
			Body:  fmt.Sprintf("Your reservation for stall %s has been cancelled.", stall),
		}
	default:
		msg = Message{Title: "Reservation update", Body: fmt.Sprintf("Stall %s was updated.", stall)}
	}
	msg.Data = data
	return msg
}
