package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	pgOnce     sync.Once
	pgDSN      string
	pgStartErr error
	pgCleanup  func()
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgCleanup != nil {
		pgCleanup()
	}
	os.Exit(code)
}

// newTestStore lazily starts one shared Postgres container for the package.
// Tests are skipped when Docker is unavailable so the suite still runs on
// machines without it.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed tests in short mode")
	}

	pgOnce.Do(startPostgres)
	if pgStartErr != nil {
		t.Skipf("postgres container unavailable: %v", pgStartErr)
	}

	s, err := NewStore(pgDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func startPostgres() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "curalink",
			"POSTGRES_PASSWORD": "curalink",
			"POSTGRES_DB":       "curalink_test",
		},
		// The init scripts restart the server once, so wait for the
		// second "ready" line before connecting.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		pgStartErr = err
		return
	}
	pgCleanup = func() { _ = container.Terminate(context.Background()) }

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		pgStartErr = err
		return
	}

	host, err := container.Host(ctx)
	if err != nil {
		pgStartErr = err
		return
	}

	pgDSN = fmt.Sprintf("postgres://curalink:curalink@%s:%s/curalink_test?sslmode=disable", host, mappedPort.Port())
}

// The container database is shared across tests, so every record carries
// unique identifiers and assertions never count globally.

func newTestPatient() domain.Patient {
	return domain.Patient{
		ID:        idx.New().String(),
		MRN:       "MRN" + idx.New().String()[:9],
		FirstName: "Jane",
		LastName:  "Doe",
		DOB:       "1985-03-12",
	}
}

func newTestProvider() domain.Provider {
	return domain.Provider{
		ID:         idx.New().String(),
		NPI:        idx.New().String()[:10],
		FirstName:  "Sarah",
		LastName:   "Chen",
		Specialty:  "Cardiology",
		Department: "Cardiology",
	}
}

func TestClientsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	clientID := "client_" + idx.New().String()
	client := domain.Client{
		ID:         idx.New().String(),
		ClientID:   clientID,
		SecretHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		AppID:      "app-001",
		AppName:    "Scheduler",
		Role:       domain.RoleDoctor,
		Scopes:     []string{"read:patients", "write:appointments"},
		RateLimit:  1000,
		Active:     true,
	}
	require.NoError(t, s.Clients().CreateClient(ctx, client))

	got, err := s.Clients().GetClientByClientID(ctx, clientID)
	require.NoError(t, err)
	require.Equal(t, client.SecretHash, got.SecretHash)
	require.Equal(t, domain.RoleDoctor, got.Role)
	require.Equal(t, []string{"read:patients", "write:appointments"}, got.Scopes)
	require.True(t, got.Active)
	require.Nil(t, got.LastUsed)

	_, err = s.Clients().GetClientByClientID(ctx, "client_"+idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	t.Run("duplicate client_id is rejected", func(t *testing.T) {
		dup := client
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Clients().CreateClient(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("touch and deactivate", func(t *testing.T) {
		require.NoError(t, s.Clients().TouchClientLastUsed(ctx, clientID))
		got, err := s.Clients().GetClientByClientID(ctx, clientID)
		require.NoError(t, err)
		require.NotNil(t, got.LastUsed)

		require.NoError(t, s.Clients().DeactivateClient(ctx, clientID))
		got, err = s.Clients().GetClientByClientID(ctx, clientID)
		require.NoError(t, err)
		require.False(t, got.Active)

		require.ErrorIs(t, s.Clients().DeactivateClient(ctx, "client_"+idx.New().String()), store.ErrNotFound)
	})
}

func TestPatientsSearchCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A surname unlikely to collide with other tests sharing the database.
	surname := "Zyqbert" + idx.New().String()[:4]
	p := newTestPatient()
	p.LastName = surname
	require.NoError(t, s.Patients().CreatePatient(ctx, p))

	found, err := s.Patients().SearchPatients(ctx, "zYQBert", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, surname, found[0].LastName)

	found, err = s.Patients().SearchPatients(ctx, p.MRN, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)

	got, err := s.Patients().GetPatientByMRN(ctx, p.MRN)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	_, err = s.Patients().GetPatientByMRN(ctx, "MRN"+idx.New().String()[:9])
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppointmentsSlotUniqueIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	patient := newTestPatient()
	provider := newTestProvider()
	require.NoError(t, s.Patients().CreatePatient(ctx, patient))
	require.NoError(t, s.Providers().CreateProvider(ctx, provider))

	appt := domain.Appointment{
		ID:            idx.New().String(),
		AppointmentID: "APT" + idx.New().String()[:9],
		PatientID:     patient.ID,
		ProviderID:    provider.ID,
		Date:          "2026-09-01",
		Time:          "10:00",
		Status:        domain.AppointmentScheduled,
	}
	require.NoError(t, s.Appointments().CreateAppointment(ctx, appt))

	taken, err := s.Appointments().SlotTaken(ctx, provider.ID, "2026-09-01", "10:00")
	require.NoError(t, err)
	require.True(t, taken)

	dup := appt
	dup.ID = idx.New().String()
	dup.AppointmentID = "APT" + idx.New().String()[:9]
	require.ErrorIs(t, s.Appointments().CreateAppointment(ctx, dup), store.ErrAlreadyExists)

	list, err := s.Appointments().ListAppointmentsByPatient(ctx, patient.ID, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Dr. Sarah Chen", list[0].ProviderName)
}

func TestVitalSignsNullableMeasurements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	patient := newTestPatient()
	require.NoError(t, s.Patients().CreatePatient(ctx, patient))

	heartRate := 72
	weight := 150.0
	require.NoError(t, s.VitalSigns().CreateVitalSign(ctx, domain.VitalSign{
		ID:         idx.New().String(),
		PatientID:  patient.ID,
		RecordedAt: time.Now().UTC(),
		HeartRate:  &heartRate,
		Weight:     &weight,
		RecordedBy: "Current User",
	}))

	vitals, err := s.VitalSigns().ListVitalSignsByPatient(ctx, patient.ID, 10)
	require.NoError(t, err)
	require.Len(t, vitals, 1)
	require.Nil(t, vitals[0].SystolicBP)
	require.Nil(t, vitals[0].Temperature)
	require.NotNil(t, vitals[0].HeartRate)
	require.Equal(t, 72, *vitals[0].HeartRate)
	require.NotNil(t, vitals[0].Weight)
	require.Equal(t, 150.0, *vitals[0].Weight)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	patient := newTestPatient()
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Patients().CreatePatient(ctx, patient); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Patients().GetPatientByMRN(ctx, patient.MRN)
	require.ErrorIs(t, err, store.ErrNotFound)
}
