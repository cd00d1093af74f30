// Package notify dispatches booking confirmations. Delivery is
// asynchronous and best-effort; a failed dispatch never fails the
// booking that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingConfirmation is the payload handed to the delivery channel.
type BookingConfirmation struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientName   string    `json:"patient_name"`
	DoctorName    string    `json:"doctor_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Recipient     string    `json:"recipient"`
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error
}

// NopNotifier drops confirmations. Used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) SendBookingConfirmation(context.Context, BookingConfirmation) error {
	return nil
}
