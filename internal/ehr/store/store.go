package store

import (
	"context"
	"errors"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to stop callers from accidentally nesting
// transactions.
type Store interface {
	Clients() Clients
	Patients() Patients
	Providers() Providers
	Appointments() Appointments
	Medications() Medications
	Allergies() Allergies
	LabResults() LabResults
	VitalSigns() VitalSigns

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g. the
	// appointment slot check plus insert). The caller MUST call Commit()
	// or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	// GetClientByClientID fetches a client by its public identifier.
	GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error)

	// ListClients returns all clients ordered by creation date (newest first).
	ListClients(ctx context.Context) ([]domain.Client, error)

	// CreateClient inserts a new client (id is provided by the app via ULID).
	CreateClient(ctx context.Context, c domain.Client) error

	// TouchClientLastUsed stamps last_used after a successful authentication.
	TouchClientLastUsed(ctx context.Context, clientID string) error

	// DeactivateClient clears active and bumps updated_at. Records are
	// never deleted.
	DeactivateClient(ctx context.Context, clientID string) error
}

type Patients interface {
	// GetPatientByMRN fetches a patient by medical record number.
	GetPatientByMRN(ctx context.Context, mrn string) (domain.Patient, error)

	// GetPatientByID fetches a patient by internal id.
	GetPatientByID(ctx context.Context, id string) (domain.Patient, error)

	// SearchPatients matches term against first name, last name or MRN,
	// case-insensitively, ordered by last then first name.
	SearchPatients(ctx context.Context, term string, limit int) ([]domain.Patient, error)

	// CreatePatient inserts a new patient.
	CreatePatient(ctx context.Context, p domain.Patient) error

	// IsEmpty returns true if there are no patients. Used by seeding.
	IsEmpty(ctx context.Context) (bool, error)
}

type Providers interface {
	// GetProviderByNPI fetches a provider by national provider identifier.
	GetProviderByNPI(ctx context.Context, npi string) (domain.Provider, error)

	// GetProviderByID fetches a provider by internal id.
	GetProviderByID(ctx context.Context, id string) (domain.Provider, error)

	// SearchProviders matches term against first name, last name or
	// specialty, case-insensitively, ordered by last then first name.
	SearchProviders(ctx context.Context, term string, limit int) ([]domain.Provider, error)

	// CreateProvider inserts a new provider.
	CreateProvider(ctx context.Context, p domain.Provider) error
}

// AppointmentDetail pairs an appointment with its provider's display name
// for list rendering.
type AppointmentDetail struct {
	Appointment  domain.Appointment
	ProviderName string
}

type Appointments interface {
	// ListAppointmentsByPatient returns a patient's appointments joined
	// with the provider name, newest date first. status filters exactly
	// when non-empty.
	ListAppointmentsByPatient(ctx context.Context, patientID, status string) ([]AppointmentDetail, error)

	// CreateAppointment inserts a new appointment. A scheduled appointment
	// colliding with an existing scheduled slot returns ErrAlreadyExists.
	CreateAppointment(ctx context.Context, a domain.Appointment) error

	// SlotTaken reports whether the provider already has a scheduled
	// appointment at the given civil date and time.
	SlotTaken(ctx context.Context, providerID, date, timeOfDay string) (bool, error)
}

type Medications interface {
	// ListActiveMedicationsByPatient returns a patient's active
	// medications, most recently prescribed first.
	ListActiveMedicationsByPatient(ctx context.Context, patientID string) ([]domain.Medication, error)

	// CreateMedication inserts a new prescription.
	CreateMedication(ctx context.Context, m domain.Medication) error
}

type Allergies interface {
	// ListActiveAllergiesByPatient returns a patient's active allergies.
	ListActiveAllergiesByPatient(ctx context.Context, patientID string) ([]domain.Allergy, error)

	// CreateAllergy inserts a new allergy record.
	CreateAllergy(ctx context.Context, a domain.Allergy) error
}

type LabResults interface {
	// ListLabResultsByPatient returns a patient's lab results ordered by
	// resulted date, newest first. limit of 0 means no limit.
	ListLabResultsByPatient(ctx context.Context, patientID string, limit int) ([]domain.LabResult, error)

	// CreateLabResult inserts a new lab order record.
	CreateLabResult(ctx context.Context, l domain.LabResult) error
}

type VitalSigns interface {
	// ListVitalSignsByPatient returns a patient's vital sign sets, most
	// recent first.
	ListVitalSignsByPatient(ctx context.Context, patientID string, limit int) ([]domain.VitalSign, error)

	// CreateVitalSign inserts a new vital sign set.
	CreateVitalSign(ctx context.Context, v domain.VitalSign) error
}
