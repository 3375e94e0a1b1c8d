package ports

import (
	"context"
	"time"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// CreatePatientInput carries the data needed to register a patient.
type CreatePatientInput struct {
	Name      string
	Email     string
	Phone     string
	BirthDate time.Time
	Notes     string
}

// ListPatientsResult is returned by ListPatients.
type ListPatientsResult struct {
	Items      []*domain.Patient
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ScheduleAppointmentInput carries the data needed to book an appointment.
type ScheduleAppointmentInput struct {
	PatientEmail     string
	OptometristEmail string
	ScheduledAt      time.Time
	Reason           string
}

// PatientService defines the clinic use cases around patients and their
// appointments.
type PatientService interface {
	CreatePatient(ctx context.Context, input CreatePatientInput) (*domain.Patient, error)
	GetPatient(ctx context.Context, email string) (*domain.Patient, error)
	ListPatients(ctx context.Context, filter ListPatientsFilter) (*ListPatientsResult, error)
	ScheduleAppointment(ctx context.Context, input ScheduleAppointmentInput) (*domain.Appointment, error)
	ListAppointments(ctx context.Context, patientEmail string) ([]*domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
}
