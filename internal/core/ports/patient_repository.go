package ports

import (
	"context"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// ListPatientsFilter carries the query parameters for listing patients.
type ListPatientsFilter struct {
	Search string // optional: partial match on name or email
	Page   int    // 1-based
	Limit  int    // capped by the service
}

// PatientRepository defines persistence operations for patients.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) error
	FindByEmail(ctx context.Context, email string) (*domain.Patient, error)
	List(ctx context.Context, filter ListPatientsFilter) ([]*domain.Patient, int64, error)
}

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByPatient(ctx context.Context, patientEmail string) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
}
