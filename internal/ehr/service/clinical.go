package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/pkg/idx"
	"github.com/curalinkhq/curalink/pkg/slogx"
	"github.com/google/uuid"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrSlotTaken        = errors.New("time slot already booked")
)

const (
	// DefaultStorageTimeout bounds every storage call made on behalf of a
	// tool invocation. A stuck collaborator becomes a StorageError, never a
	// hang.
	DefaultStorageTimeout = 5 * time.Second

	defaultPatientSearchLimit  = 10
	defaultProviderSearchLimit = 20
	defaultVitalSignsLimit     = 10

	dateLayout = "2006-01-02"
)

// ClinicalService fronts the record store for the clinical tools. It owns
// business-identifier generation and cross-record workflows; the entities
// themselves live behind the store contract.
type ClinicalService struct {
	Store   store.Store
	Timeout time.Duration
}

// NewPatient carries the caller-supplied fields for patient creation.
type NewPatient struct {
	FirstName string
	LastName  string
	DOB       string
	Gender    string
	Email     string
	Phone     string
}

// AppointmentRequest describes a booking attempt against a provider slot.
type AppointmentRequest struct {
	MRN         string
	ProviderNPI string
	Date        string
	Time        string
	Reason      string
}

// PrescriptionRequest describes a new medication order for a patient.
type PrescriptionRequest struct {
	MRN       string
	Name      string
	Dosage    string
	Frequency string
	Refills   int
}

// VitalSignsInput carries one observation set. Every measurement is
// optional; absent values stay absent rather than turning into zeroes.
type VitalSignsInput struct {
	MRN              string
	SystolicBP       *int
	DiastolicBP      *int
	HeartRate        *int
	Temperature      *float64
	RespiratoryRate  *int
	OxygenSaturation *int
	Weight           *float64
	Height           *float64
}

func (s *ClinicalService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// businessID builds the short human-facing identifiers clinicians quote
// over the phone: a fixed prefix plus six uppercase hex characters.
func businessID(prefix string) string {
	id := uuid.New()
	return prefix + strings.ToUpper(hex.EncodeToString(id[:3]))
}

// GetPatientByMRN looks up a patient by medical record number.
func (s *ClinicalService) GetPatientByMRN(ctx context.Context, mrn string) (domain.Patient, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, mrn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Patient{}, ErrPatientNotFound
		}
		return domain.Patient{}, storageErr("get_patient", err)
	}
	return patient, nil
}

// SearchPatients matches the term against first name, last name and MRN.
func (s *ClinicalService) SearchPatients(ctx context.Context, term string) ([]domain.Patient, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patients, err := s.Store.Patients().SearchPatients(ctx, term, defaultPatientSearchLimit)
	if err != nil {
		return nil, storageErr("search_patients", err)
	}
	return patients, nil
}

// CreatePatient registers a new patient and assigns a fresh MRN.
func (s *ClinicalService) CreatePatient(ctx context.Context, np NewPatient) (domain.Patient, error) {
	log := slogx.FromContext(ctx)

	np.FirstName = strings.TrimSpace(np.FirstName)
	np.LastName = strings.TrimSpace(np.LastName)
	np.DOB = strings.TrimSpace(np.DOB)
	if np.FirstName == "" || np.LastName == "" || np.DOB == "" {
		return domain.Patient{}, errors.New("first_name, last_name and dob are required")
	}
	if _, err := time.Parse(dateLayout, np.DOB); err != nil {
		return domain.Patient{}, fmt.Errorf("invalid dob %q, expected YYYY-MM-DD", np.DOB)
	}

	patient := domain.Patient{
		ID:        idx.New().String(),
		MRN:       businessID("MRN"),
		FirstName: np.FirstName,
		LastName:  np.LastName,
		DOB:       np.DOB,
		Gender:    np.Gender,
		Email:     np.Email,
		Phone:     np.Phone,
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.Store.Patients().CreatePatient(ctx, patient); err != nil {
		return domain.Patient{}, storageErr("create_patient", err)
	}

	log.Info("patient created", slog.String("mrn", patient.MRN))
	return patient, nil
}

// AppointmentsForPatient lists a patient's appointments newest first.
// An empty status returns every appointment regardless of state.
func (s *ClinicalService) AppointmentsForPatient(ctx context.Context, mrn, status string) ([]store.AppointmentDetail, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, mrn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, storageErr("get_appointments", err)
	}

	details, err := s.Store.Appointments().ListAppointmentsByPatient(ctx, patient.ID, status)
	if err != nil {
		return nil, storageErr("get_appointments", err)
	}
	return details, nil
}

// ScheduleAppointment books a provider slot for a patient.
//
// The availability check and the insert run inside one transaction, and the
// store enforces a unique scheduled-slot constraint underneath, so two
// concurrent bookings for the same slot cannot both succeed; the loser gets
// ErrSlotTaken.
func (s *ClinicalService) ScheduleAppointment(ctx context.Context, req AppointmentRequest) (domain.Appointment, domain.Provider, error) {
	log := slogx.FromContext(ctx)

	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return domain.Appointment{}, domain.Provider{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", req.Date)
	}
	if req.Time == "" {
		return domain.Appointment{}, domain.Provider{}, errors.New("time is required")
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var (
		appointment domain.Appointment
		provider    domain.Provider
	)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		patient, err := tx.Patients().GetPatientByMRN(ctx, req.MRN)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPatientNotFound
			}
			return err
		}

		provider, err = tx.Providers().GetProviderByNPI(ctx, req.ProviderNPI)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProviderNotFound
			}
			return err
		}

		taken, err := tx.Appointments().SlotTaken(ctx, provider.ID, req.Date, req.Time)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		appointment = domain.Appointment{
			ID:              idx.New().String(),
			AppointmentID:   businessID("APT"),
			PatientID:       patient.ID,
			ProviderID:      provider.ID,
			Date:            req.Date,
			Time:            req.Time,
			DurationMinutes: 30,
			Type:            "Office Visit",
			Department:      provider.Department,
			Location:        "Main Clinic",
			Status:          domain.AppointmentScheduled,
			Reason:          req.Reason,
		}

		return tx.Appointments().CreateAppointment(ctx, appointment)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrProviderNotFound), errors.Is(err, ErrSlotTaken):
			return domain.Appointment{}, domain.Provider{}, err
		case errors.Is(err, store.ErrAlreadyExists):
			// Lost the race to a concurrent booking after the availability
			// check passed; the unique slot index caught it.
			return domain.Appointment{}, domain.Provider{}, ErrSlotTaken
		default:
			return domain.Appointment{}, domain.Provider{}, storageErr("schedule_appointment", err)
		}
	}

	log.Info("appointment scheduled",
		slog.String("appointment_id", appointment.AppointmentID),
		slog.String("mrn", req.MRN),
		slog.String("provider_npi", req.ProviderNPI),
	)
	return appointment, provider, nil
}

// ActiveMedications lists a patient's active medications newest first.
func (s *ClinicalService) ActiveMedications(ctx context.Context, mrn string) ([]domain.Medication, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, mrn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, storageErr("get_medications", err)
	}

	medications, err := s.Store.Medications().ListActiveMedicationsByPatient(ctx, patient.ID)
	if err != nil {
		return nil, storageErr("get_medications", err)
	}
	return medications, nil
}

// PrescribeMedication records a new oral prescription dated today.
func (s *ClinicalService) PrescribeMedication(ctx context.Context, req PrescriptionRequest) (domain.Medication, error) {
	log := slogx.FromContext(ctx)

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Medication{}, errors.New("medication_name is required")
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, req.MRN)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Medication{}, ErrPatientNotFound
		}
		return domain.Medication{}, storageErr("prescribe_medication", err)
	}

	medication := domain.Medication{
		ID:               idx.New().String(),
		MedicationID:     businessID("MED"),
		PatientID:        patient.ID,
		Name:             req.Name,
		Dosage:           req.Dosage,
		Frequency:        req.Frequency,
		Route:            "Oral",
		PrescribedDate:   time.Now().Format(dateLayout),
		Prescriber:       "Current Provider",
		Status:           domain.MedicationActive,
		RefillsRemaining: req.Refills,
	}

	if err := s.Store.Medications().CreateMedication(ctx, medication); err != nil {
		return domain.Medication{}, storageErr("prescribe_medication", err)
	}

	log.Info("medication prescribed",
		slog.String("medication_id", medication.MedicationID),
		slog.String("mrn", req.MRN),
		slog.String("name", medication.Name),
	)
	return medication, nil
}

// LabResultsForPatient lists a patient's lab results, most recently
// resulted first.
func (s *ClinicalService) LabResultsForPatient(ctx context.Context, mrn string) ([]domain.LabResult, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, mrn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, storageErr("get_lab_results", err)
	}

	results, err := s.Store.LabResults().ListLabResultsByPatient(ctx, patient.ID, 0)
	if err != nil {
		return nil, storageErr("get_lab_results", err)
	}
	return results, nil
}

// VitalSignsForPatient lists a patient's most recent vital sign sets.
func (s *ClinicalService) VitalSignsForPatient(ctx context.Context, mrn string) ([]domain.VitalSign, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, mrn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, storageErr("get_vital_signs", err)
	}

	vitals, err := s.Store.VitalSigns().ListVitalSignsByPatient(ctx, patient.ID, defaultVitalSignsLimit)
	if err != nil {
		return nil, storageErr("get_vital_signs", err)
	}
	return vitals, nil
}

// RecordVitalSigns stores one observation set for a patient. BMI is derived
// when both weight (lb) and height (in) are present, otherwise left empty.
func (s *ClinicalService) RecordVitalSigns(ctx context.Context, in VitalSignsInput) (domain.VitalSign, error) {
	log := slogx.FromContext(ctx)

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, in.MRN)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.VitalSign{}, ErrPatientNotFound
		}
		return domain.VitalSign{}, storageErr("record_vital_signs", err)
	}

	vital := domain.VitalSign{
		ID:               idx.New().String(),
		PatientID:        patient.ID,
		RecordedAt:       time.Now().UTC(),
		SystolicBP:       in.SystolicBP,
		DiastolicBP:      in.DiastolicBP,
		HeartRate:        in.HeartRate,
		Temperature:      in.Temperature,
		RespiratoryRate:  in.RespiratoryRate,
		OxygenSaturation: in.OxygenSaturation,
		Weight:           in.Weight,
		Height:           in.Height,
		BMI:              computeBMI(in.Weight, in.Height),
		RecordedBy:       "Current User",
	}

	if err := s.Store.VitalSigns().CreateVitalSign(ctx, vital); err != nil {
		return domain.VitalSign{}, storageErr("record_vital_signs", err)
	}

	log.Info("vital signs recorded", slog.String("mrn", in.MRN))
	return vital, nil
}

// computeBMI converts imperial inputs (pounds, inches) to metric and
// rounds to one decimal place.
func computeBMI(weightLb, heightIn *float64) *float64 {
	if weightLb == nil || heightIn == nil || *heightIn == 0 {
		return nil
	}
	kg := *weightLb * 0.453592
	m := *heightIn * 0.0254
	bmi := math.Round(kg/(m*m)*10) / 10
	return &bmi
}

// ActiveAllergies lists a patient's active allergies.
func (s *ClinicalService) ActiveAllergies(ctx context.Context, mrn string) ([]domain.Allergy, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	patient, err := s.Store.Patients().GetPatientByMRN(ctx, mrn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, storageErr("get_allergies", err)
	}

	allergies, err := s.Store.Allergies().ListActiveAllergiesByPatient(ctx, patient.ID)
	if err != nil {
		return nil, storageErr("get_allergies", err)
	}
	return allergies, nil
}

// SearchProviders matches the term against provider names and specialties.
func (s *ClinicalService) SearchProviders(ctx context.Context, term string) ([]domain.Provider, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	providers, err := s.Store.Providers().SearchProviders(ctx, term, defaultProviderSearchLimit)
	if err != nil {
		return nil, storageErr("search_providers", err)
	}
	return providers, nil
}

// GetProviderByNPI looks up a provider by national provider identifier.
func (s *ClinicalService) GetProviderByNPI(ctx context.Context, npi string) (domain.Provider, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	provider, err := s.Store.Providers().GetProviderByNPI(ctx, npi)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Provider{}, ErrProviderNotFound
		}
		return domain.Provider{}, storageErr("get_provider", err)
	}
	return provider, nil
}
