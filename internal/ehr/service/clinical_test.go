package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/internal/ehr/store/drivers/sqlite"
	"github.com/curalinkhq/curalink/pkg/idx"
	"github.com/stretchr/testify/require"
)

func createTestPatient(t *testing.T, s store.Store, mrn, first, last string) domain.Patient {
	t.Helper()

	p := domain.Patient{
		ID:        idx.New().String(),
		MRN:       mrn,
		FirstName: first,
		LastName:  last,
		DOB:       "1980-05-21",
		Gender:    "female",
	}
	require.NoError(t, s.Patients().CreatePatient(context.Background(), p))
	return p
}

func createTestProvider(t *testing.T, s store.Store, npi, specialty, department string) domain.Provider {
	t.Helper()

	p := domain.Provider{
		ID:                   idx.New().String(),
		NPI:                  npi,
		FirstName:            "Sarah",
		LastName:             "Chen",
		Specialty:            specialty,
		Department:           department,
		AcceptingNewPatients: true,
	}
	require.NoError(t, s.Providers().CreateProvider(context.Background(), p))
	return p
}

func TestBusinessID(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^MRN[0-9A-F]{6}$`)
	seen := map[string]bool{}
	for range 20 {
		id := businessID("MRN")
		require.Regexp(t, pattern, id)
		require.False(t, seen[id], "duplicate business id %s", id)
		seen[id] = true
	}
}

func TestComputeBMI(t *testing.T) {
	t.Parallel()

	t.Run("derives from imperial weight and height", func(t *testing.T) {
		bmi := computeBMI(floatp(168), floatp(64))
		require.NotNil(t, bmi)
		require.InDelta(t, 28.8, *bmi, 0.01)

		bmi = computeBMI(floatp(175), floatp(70))
		require.NotNil(t, bmi)
		require.InDelta(t, 25.1, *bmi, 0.01)
	})

	t.Run("missing inputs yield no value", func(t *testing.T) {
		require.Nil(t, computeBMI(nil, floatp(64)))
		require.Nil(t, computeBMI(floatp(168), nil))
		require.Nil(t, computeBMI(nil, nil))
		require.Nil(t, computeBMI(floatp(168), floatp(0)))
	})
}

func TestCreatePatient(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClinicalService{Store: s}

	patient, err := svc.CreatePatient(ctx, NewPatient{
		FirstName: "Nora",
		LastName:  "Whitfield",
		DOB:       "1991-09-12",
		Gender:    "female",
		Email:     "nora.w@example.net",
	})
	require.NoError(t, err)
	require.Regexp(t, `^MRN[0-9A-F]{6}$`, patient.MRN)

	got, err := svc.GetPatientByMRN(ctx, patient.MRN)
	require.NoError(t, err)
	require.Equal(t, "Nora", got.FirstName)
	require.Equal(t, "Whitfield", got.LastName)
	require.Equal(t, "1991-09-12", got.DOB)

	t.Run("missing required fields", func(t *testing.T) {
		_, err := svc.CreatePatient(ctx, NewPatient{FirstName: "Solo"})
		require.ErrorContains(t, err, "required")
	})

	t.Run("malformed date of birth", func(t *testing.T) {
		_, err := svc.CreatePatient(ctx, NewPatient{
			FirstName: "Bad",
			LastName:  "Date",
			DOB:       "09/12/1991",
		})
		require.ErrorContains(t, err, "expected YYYY-MM-DD")
	})
}

func TestGetPatientByMRNNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClinicalService{Store: s}

	_, err := svc.GetPatientByMRN(ctx, "MRN000000")
	require.ErrorIs(t, err, ErrPatientNotFound)
}

func TestScheduleAppointment(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClinicalService{Store: s}

	patient := createTestPatient(t, s, "MRN11AA22", "Margaret", "Thompson")
	provider := createTestProvider(t, s, "1104892763", "Cardiology", "Cardiology")

	appt, prov, err := svc.ScheduleAppointment(ctx, AppointmentRequest{
		MRN:         patient.MRN,
		ProviderNPI: provider.NPI,
		Date:        "2026-09-15",
		Time:        "10:00",
		Reason:      "Chest pain follow-up",
	})
	require.NoError(t, err)
	require.Regexp(t, `^APT[0-9A-F]{6}$`, appt.AppointmentID)
	require.Equal(t, domain.AppointmentScheduled, appt.Status)
	require.Equal(t, 30, appt.DurationMinutes)
	require.Equal(t, "Office Visit", appt.Type)
	require.Equal(t, "Main Clinic", appt.Location)
	require.Equal(t, "Cardiology", appt.Department)
	require.Equal(t, provider.NPI, prov.NPI)

	t.Run("same slot is rejected", func(t *testing.T) {
		_, _, err := svc.ScheduleAppointment(ctx, AppointmentRequest{
			MRN:         patient.MRN,
			ProviderNPI: provider.NPI,
			Date:        "2026-09-15",
			Time:        "10:00",
		})
		require.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("another time is fine", func(t *testing.T) {
		_, _, err := svc.ScheduleAppointment(ctx, AppointmentRequest{
			MRN:         patient.MRN,
			ProviderNPI: provider.NPI,
			Date:        "2026-09-15",
			Time:        "10:30",
		})
		require.NoError(t, err)
	})

	t.Run("unknown patient", func(t *testing.T) {
		_, _, err := svc.ScheduleAppointment(ctx, AppointmentRequest{
			MRN:         "MRN000000",
			ProviderNPI: provider.NPI,
			Date:        "2026-09-16",
			Time:        "10:00",
		})
		require.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, _, err := svc.ScheduleAppointment(ctx, AppointmentRequest{
			MRN:         patient.MRN,
			ProviderNPI: "9999999999",
			Date:        "2026-09-16",
			Time:        "10:00",
		})
		require.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, _, err := svc.ScheduleAppointment(ctx, AppointmentRequest{
			MRN:         patient.MRN,
			ProviderNPI: provider.NPI,
			Date:        "15/09/2026",
			Time:        "10:00",
		})
		require.ErrorContains(t, err, "expected YYYY-MM-DD")
	})
}

func TestAppointmentsForPatient(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClinicalService{Store: s}

	patient := createTestPatient(t, s, "MRN33BB44", "David", "Kim")
	provider := createTestProvider(t, s, "1558201496", "Family Medicine", "Primary Care")

	for i, tm := range []string{"09:00", "09:30"} {
		status := domain.AppointmentScheduled
		if i == 0 {
			status = domain.AppointmentCompleted
		}
		require.NoError(t, s.Appointments().CreateAppointment(ctx, domain.Appointment{
			ID:            idx.New().String(),
			AppointmentID: businessID("APT"),
			PatientID:     patient.ID,
			ProviderID:    provider.ID,
			Date:          "2026-03-01",
			Time:          tm,
			Status:        status,
		}))
	}

	all, err := svc.AppointmentsForPatient(ctx, patient.MRN, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Dr. Sarah Chen", all[0].ProviderName)

	scheduled, err := svc.AppointmentsForPatient(ctx, patient.MRN, domain.AppointmentScheduled)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)

	_, err = svc.AppointmentsForPatient(ctx, "MRN000000", "")
	require.ErrorIs(t, err, ErrPatientNotFound)
}

func TestPrescribeMedication(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClinicalService{Store: s}

	patient := createTestPatient(t, s, "MRN55CC66", "Rosa", "Alvarez")

	med, err := svc.PrescribeMedication(ctx, PrescriptionRequest{
		MRN:       patient.MRN,
		Name:      "Atorvastatin",
		Dosage:    "20 mg",
		Frequency: "once daily",
		Refills:   2,
	})
	require.NoError(t, err)
	require.Regexp(t, `^MED[0-9A-F]{6}$`, med.MedicationID)
	require.Equal(t, "Oral", med.Route)
	require.Equal(t, "Current Provider", med.Prescriber)
	require.Equal(t, domain.MedicationActive, med.Status)
	require.Equal(t, time.Now().Format("2006-01-02"), med.PrescribedDate)
	require.Equal(t, 2, med.RefillsRemaining)

	active, err := svc.ActiveMedications(ctx, patient.MRN)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Atorvastatin", active[0].Name)

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.PrescribeMedication(ctx, PrescriptionRequest{MRN: patient.MRN})
		require.ErrorContains(t, err, "medication_name is required")
	})

	t.Run("unknown patient", func(t *testing.T) {
		_, err := svc.PrescribeMedication(ctx, PrescriptionRequest{MRN: "MRN000000", Name: "Aspirin"})
		require.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestRecordVitalSigns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClinicalService{Store: s}

	patient := createTestPatient(t, s, "MRN77DD88", "Elena", "Vasquez")

	recorded, err := svc.RecordVitalSigns(ctx, VitalSignsInput{
		MRN:              patient.MRN,
		SystolicBP:       intp(122),
		DiastolicBP:      intp(78),
		HeartRate:        intp(70),
		Temperature:      floatp(98.4),
		OxygenSaturation: intp(98),
		Weight:           floatp(168),
		Height:           floatp(64),
	})
	require.NoError(t, err)
	require.NotNil(t, recorded.BMI)
	require.InDelta(t, 28.8, *recorded.BMI, 0.01)
	require.Equal(t, "Current User", recorded.RecordedBy)

	vitals, err := svc.VitalSignsForPatient(ctx, patient.MRN)
	require.NoError(t, err)
	require.Len(t, vitals, 1)
	require.Equal(t, 122, *vitals[0].SystolicBP)
	require.Nil(t, vitals[0].RespiratoryRate)

	t.Run("no derived value without height", func(t *testing.T) {
		recorded, err := svc.RecordVitalSigns(ctx, VitalSignsInput{
			MRN:    patient.MRN,
			Weight: floatp(168),
		})
		require.NoError(t, err)
		require.Nil(t, recorded.BMI)
	})

	t.Run("unknown patient", func(t *testing.T) {
		_, err := svc.RecordVitalSigns(ctx, VitalSignsInput{MRN: "MRN000000"})
		require.ErrorIs(t, err, ErrPatientNotFound)
	})
}

func TestProviderLookupAndSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClinicalService{Store: s}

	provider := createTestProvider(t, s, "1376540982", "Endocrinology", "Endocrinology")

	got, err := svc.GetProviderByNPI(ctx, provider.NPI)
	require.NoError(t, err)
	require.Equal(t, "Dr. Sarah Chen", got.DisplayName())

	found, err := svc.SearchProviders(ctx, "endo")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = svc.GetProviderByNPI(ctx, "0000000000")
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestStorageFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	svc := &ClinicalService{Store: s}

	// A closed database stands in for any backend failure.
	require.NoError(t, s.Close())

	_, err = svc.GetPatientByMRN(ctx, "MRN000000")

	var se *StorageError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "get_patient", se.Op)
	// The message stays opaque; the cause is only for server-side logs.
	require.NotContains(t, se.Error(), "sql")
}
