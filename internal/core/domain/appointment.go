package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// validAppointmentTransitions defines the allowed state machine transitions.
var validAppointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled: {AppointmentCompleted, AppointmentCancelled},
}

var ErrInvalidTransition = errors.New("invalid appointment status transition")
var ErrAppointmentNotFound = errors.New("appointment not found")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validAppointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment links a patient to an optometrist at a scheduled time.
// This is the canonical, email-bearing shape used by all request and
// response contracts.
type Appointment struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	PatientEmail     string            `json:"patient_email" bson:"patient_email"`
	PatientName      string            `json:"patient_name" bson:"patient_name"`
	OptometristEmail string            `json:"optometrist_email" bson:"optometrist_email"`
	ScheduledAt      time.Time         `json:"scheduled_at" bson:"scheduled_at"`
	Reason           string            `json:"reason,omitempty" bson:"reason,omitempty"`
	Status           AppointmentStatus `json:"status" bson:"status"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
}
