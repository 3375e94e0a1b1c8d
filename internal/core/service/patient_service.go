package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-system/internal/core/domain"
	"github.com/visioncare/clinic-system/internal/core/ports"
)

const maxPatientPageSize = 100

type PatientService struct {
	patients     ports.PatientRepository
	appointments ports.AppointmentRepository
	log          zerolog.Logger
}

func NewPatientService(patients ports.PatientRepository, appointments ports.AppointmentRepository, log zerolog.Logger) *PatientService {
	return &PatientService{patients: patients, appointments: appointments, log: log}
}

func (s *PatientService) CreatePatient(ctx context.Context, in ports.CreatePatientInput) (*domain.Patient, error) {
	email := normalizeEmail(in.Email)
	if in.Name == "" || email == "" {
		return nil, fmt.Errorf("patient name and email are required")
	}

	if _, err := s.patients.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrPatientExists
	} else if !errors.Is(err, domain.ErrPatientNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Patient{
		Name:      in.Name,
		Email:     email,
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("patient created")
	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, email string) (*domain.Patient, error) {
	return s.patients.FindByEmail(ctx, normalizeEmail(email))
}

func (s *PatientService) ListPatients(ctx context.Context, filter ports.ListPatientsFilter) (*ports.ListPatientsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxPatientPageSize {
		filter.Limit = maxPatientPageSize
	}
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.patients.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListPatientsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ScheduleAppointment books an appointment for an existing patient. The
// patient's name is denormalized onto the appointment, which is the
// canonical email-bearing shape used by all contracts.
func (s *PatientService) ScheduleAppointment(ctx context.Context, in ports.ScheduleAppointmentInput) (*domain.Appointment, error) {
	patient, err := s.patients.FindByEmail(ctx, normalizeEmail(in.PatientEmail))
	if err != nil {
		return nil, err
	}

	a := &domain.Appointment{
		PatientEmail:     patient.Email,
		PatientName:      patient.Name,
		OptometristEmail: normalizeEmail(in.OptometristEmail),
		ScheduledAt:      in.ScheduledAt.UTC(),
		Reason:           in.Reason,
		Status:           domain.AppointmentScheduled,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Str("patient", a.PatientEmail).Time("scheduled_at", a.ScheduledAt).Msg("appointment scheduled")
	return a, nil
}

func (s *PatientService) ListAppointments(ctx context.Context, patientEmail string) ([]*domain.Appointment, error) {
	return s.appointments.ListByPatient(ctx, normalizeEmail(patientEmail))
}

func (s *PatientService) UpdateAppointmentStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	a, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, a.Status, status)
	}

	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}
