package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/pkg/idx"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

// SeedDemoData loads a small set of fictional patients, providers and
// clinical records so a fresh development database has something to query.
// It is idempotent: if any patient already exists the seed is skipped, so
// restarting the server never duplicates records.
func SeedDemoData(ctx context.Context, s store.Store) error {
	log := slogx.FromContext(ctx)

	empty, err := s.Patients().IsEmpty(ctx)
	if err != nil {
		return storageErr("seed_demo_data", err)
	}
	if !empty {
		log.Debug("demo data skipped, patients already present")
		return nil
	}

	now := time.Now()
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(dateLayout)
	}

	rodriguez := domain.Provider{
		ID:                   idx.New().String(),
		NPI:                  "1104892763",
		FirstName:            "Emily",
		LastName:             "Rodriguez",
		Specialty:            "Family Medicine",
		Department:           "Primary Care",
		Phone:                "555-0142",
		Email:                "emily.rodriguez@curalink.example",
		LicenseNumber:        "G48213",
		LicenseState:         "CA",
		AcceptingNewPatients: true,
	}
	okafor := domain.Provider{
		ID:                   idx.New().String(),
		NPI:                  "1558201496",
		FirstName:            "James",
		LastName:             "Okafor",
		Specialty:            "Cardiology",
		Department:           "Cardiology",
		Phone:                "555-0177",
		Email:                "james.okafor@curalink.example",
		LicenseNumber:        "C91027",
		LicenseState:         "CA",
		AcceptingNewPatients: true,
	}
	natarajan := domain.Provider{
		ID:                   idx.New().String(),
		NPI:                  "1376540982",
		FirstName:            "Priya",
		LastName:             "Natarajan",
		Specialty:            "Endocrinology",
		Department:           "Endocrinology",
		Phone:                "555-0115",
		Email:                "priya.natarajan@curalink.example",
		LicenseNumber:        "E30458",
		LicenseState:         "CA",
		AcceptingNewPatients: false,
	}
	providers := []domain.Provider{rodriguez, okafor, natarajan}

	thompson := domain.Patient{
		ID:                           idx.New().String(),
		MRN:                          "MRN4F2A1C",
		FirstName:                    "Margaret",
		LastName:                     "Thompson",
		DOB:                          "1958-03-14",
		Gender:                       "female",
		Email:                        "m.thompson@example.net",
		Phone:                        "555-0231",
		Street:                       "1842 Sycamore Lane",
		City:                         "Sacramento",
		State:                        "CA",
		ZipCode:                      "95815",
		InsuranceProvider:            "Blue Shield",
		PolicyNumber:                 "BS-4482913",
		GroupNumber:                  "GRP-2044",
		EmergencyContactName:         "Alan Thompson",
		EmergencyContactRelationship: "spouse",
		EmergencyContactPhone:        "555-0232",
	}
	kim := domain.Patient{
		ID:                           idx.New().String(),
		MRN:                          "MRN9B83E2",
		FirstName:                    "David",
		LastName:                     "Kim",
		DOB:                          "1985-11-02",
		Gender:                       "male",
		Email:                        "david.kim@example.net",
		Phone:                        "555-0318",
		Street:                       "77 Marina Court, Apt 4B",
		City:                         "Sacramento",
		State:                        "CA",
		ZipCode:                      "95811",
		InsuranceProvider:            "Aetna",
		PolicyNumber:                 "AET-1170254",
		GroupNumber:                  "GRP-8821",
		EmergencyContactName:         "Susan Kim",
		EmergencyContactRelationship: "mother",
		EmergencyContactPhone:        "555-0319",
	}
	alvarez := domain.Patient{
		ID:                idx.New().String(),
		MRN:               "MRNC51D78",
		FirstName:         "Rosa",
		LastName:          "Alvarez",
		DOB:               "1972-07-29",
		Gender:            "female",
		Email:             "rosa.alvarez@example.net",
		Phone:             "555-0406",
		Street:            "530 Juniper Street",
		City:              "Davis",
		State:             "CA",
		ZipCode:           "95616",
		InsuranceProvider: "Kaiser Permanente",
		PolicyNumber:      "KP-9936410",
	}
	patients := []domain.Patient{thompson, kim, alvarez}

	appointments := []domain.Appointment{
		{
			ID:              idx.New().String(),
			AppointmentID:   "APT2E91A4",
			PatientID:       thompson.ID,
			ProviderID:      rodriguez.ID,
			Date:            day(-30),
			Time:            "09:30",
			DurationMinutes: 30,
			Type:            "Office Visit",
			Department:      rodriguez.Department,
			Location:        "Main Clinic",
			Status:          domain.AppointmentCompleted,
			Reason:          "Hypertension follow-up",
		},
		{
			ID:              idx.New().String(),
			AppointmentID:   "APT7C03F8",
			PatientID:       thompson.ID,
			ProviderID:      okafor.ID,
			Date:            day(7),
			Time:            "14:00",
			DurationMinutes: 30,
			Type:            "Office Visit",
			Department:      okafor.Department,
			Location:        "Main Clinic",
			Status:          domain.AppointmentScheduled,
			Reason:          "Cardiology consult for elevated blood pressure",
		},
		{
			ID:              idx.New().String(),
			AppointmentID:   "APT5A6D20",
			PatientID:       kim.ID,
			ProviderID:      rodriguez.ID,
			Date:            day(3),
			Time:            "10:00",
			DurationMinutes: 30,
			Type:            "Office Visit",
			Department:      rodriguez.Department,
			Location:        "Main Clinic",
			Status:          domain.AppointmentScheduled,
			Reason:          "Annual physical",
		},
		{
			ID:              idx.New().String(),
			AppointmentID:   "APT914BE7",
			PatientID:       alvarez.ID,
			ProviderID:      natarajan.ID,
			Date:            day(-14),
			Time:            "11:15",
			DurationMinutes: 30,
			Type:            "Office Visit",
			Department:      natarajan.Department,
			Location:        "Main Clinic",
			Status:          domain.AppointmentCompleted,
			Reason:          "Thyroid management",
		},
		{
			ID:              idx.New().String(),
			AppointmentID:   "APT3D08C1",
			PatientID:       alvarez.ID,
			ProviderID:      rodriguez.ID,
			Date:            day(-2),
			Time:            "15:30",
			DurationMinutes: 30,
			Type:            "Office Visit",
			Department:      rodriguez.Department,
			Location:        "Main Clinic",
			Status:          domain.AppointmentCancelled,
			Reason:          "Medication review",
		},
	}

	medications := []domain.Medication{
		{
			ID:               idx.New().String(),
			MedicationID:     "MED1F7B02",
			PatientID:        thompson.ID,
			Name:             "Lisinopril",
			Dosage:           "10 mg",
			Frequency:        "once daily",
			Route:            "Oral",
			PrescribedDate:   day(-120),
			Prescriber:       rodriguez.DisplayName(),
			Status:           domain.MedicationActive,
			RefillsRemaining: 2,
		},
		{
			ID:               idx.New().String(),
			MedicationID:     "MED8A44C9",
			PatientID:        thompson.ID,
			Name:             "Metformin",
			Dosage:           "500 mg",
			Frequency:        "twice daily",
			Route:            "Oral",
			PrescribedDate:   day(-90),
			Prescriber:       rodriguez.DisplayName(),
			Status:           domain.MedicationActive,
			RefillsRemaining: 3,
		},
		{
			ID:               idx.New().String(),
			MedicationID:     "MED6E20D5",
			PatientID:        kim.ID,
			Name:             "Albuterol",
			Dosage:           "90 mcg",
			Frequency:        "as needed",
			Route:            "Inhalation",
			PrescribedDate:   day(-365),
			Prescriber:       rodriguez.DisplayName(),
			Status:           domain.MedicationActive,
			RefillsRemaining: 1,
		},
		{
			ID:               idx.New().String(),
			MedicationID:     "MED2C93A7",
			PatientID:        alvarez.ID,
			Name:             "Levothyroxine",
			Dosage:           "75 mcg",
			Frequency:        "once daily",
			Route:            "Oral",
			PrescribedDate:   day(-200),
			Prescriber:       natarajan.DisplayName(),
			Status:           domain.MedicationActive,
			RefillsRemaining: 5,
		},
	}

	allergies := []domain.Allergy{
		{
			ID:        idx.New().String(),
			PatientID: thompson.ID,
			Allergen:  "Penicillin",
			Reaction:  "hives",
			Severity:  domain.SeverityModerate,
			OnsetDate: "1994-06-01",
			Status:    "active",
		},
		{
			ID:        idx.New().String(),
			PatientID: kim.ID,
			Allergen:  "Peanuts",
			Reaction:  "anaphylaxis",
			Severity:  domain.SeveritySevere,
			OnsetDate: "1990-02-15",
			Status:    "active",
		},
		{
			ID:        idx.New().String(),
			PatientID: alvarez.ID,
			Allergen:  "Sulfamethoxazole",
			Reaction:  "rash",
			Severity:  domain.SeverityMild,
			Status:    "active",
		},
	}

	labResults := []domain.LabResult{
		{
			ID:            idx.New().String(),
			OrderID:       "ORD4B17E9",
			PatientID:     thompson.ID,
			TestName:      "Comprehensive Metabolic Panel",
			OrderedDate:   day(-10),
			CollectedDate: day(-10),
			ResultedDate:  day(-9),
			Status:        domain.LabFinal,
			OrderedBy:     rodriguez.DisplayName(),
			ResultsJSON: `{"glucose":{"value":132,"unit":"mg/dL","reference_range":"70-99","flag":"high"},` +
				`"creatinine":{"value":0.9,"unit":"mg/dL","reference_range":"0.6-1.1","flag":"normal"},` +
				`"potassium":{"value":4.2,"unit":"mmol/L","reference_range":"3.5-5.1","flag":"normal"}}`,
		},
		{
			ID:            idx.New().String(),
			OrderID:       "ORD9D52A3",
			PatientID:     thompson.ID,
			TestName:      "Hemoglobin A1c",
			OrderedDate:   day(-10),
			CollectedDate: day(-10),
			ResultedDate:  day(-9),
			Status:        domain.LabFinal,
			OrderedBy:     rodriguez.DisplayName(),
			ResultsJSON:   `{"hba1c":{"value":7.1,"unit":"%","reference_range":"4.0-5.6","flag":"high"}}`,
		},
		{
			ID:          idx.New().String(),
			OrderID:     "ORD0C86F4",
			PatientID:   kim.ID,
			TestName:    "Lipid Panel",
			OrderedDate: day(-1),
			Status:      domain.LabPending,
			OrderedBy:   rodriguez.DisplayName(),
		},
		{
			ID:            idx.New().String(),
			OrderID:       "ORD7E30B8",
			PatientID:     alvarez.ID,
			TestName:      "Thyroid Stimulating Hormone",
			OrderedDate:   day(-21),
			CollectedDate: day(-21),
			ResultedDate:  day(-20),
			Status:        domain.LabFinal,
			OrderedBy:     natarajan.DisplayName(),
			ResultsJSON:   `{"tsh":{"value":3.2,"unit":"mIU/L","reference_range":"0.4-4.0","flag":"normal"}}`,
		},
	}

	vitalSigns := []domain.VitalSign{
		{
			ID:               idx.New().String(),
			PatientID:        thompson.ID,
			RecordedAt:       now.AddDate(0, 0, -30).UTC(),
			SystolicBP:       intp(142),
			DiastolicBP:      intp(88),
			HeartRate:        intp(76),
			Temperature:      floatp(98.2),
			RespiratoryRate:  intp(16),
			OxygenSaturation: intp(97),
			Weight:           floatp(168),
			Height:           floatp(64),
			BMI:              computeBMI(floatp(168), floatp(64)),
			RecordedBy:       "Nurse Ko",
		},
		{
			ID:               idx.New().String(),
			PatientID:        thompson.ID,
			RecordedAt:       now.AddDate(0, 0, -9).UTC(),
			SystolicBP:       intp(136),
			DiastolicBP:      intp(84),
			HeartRate:        intp(72),
			Temperature:      floatp(98.0),
			RespiratoryRate:  intp(15),
			OxygenSaturation: intp(98),
			Weight:           floatp(166),
			Height:           floatp(64),
			BMI:              computeBMI(floatp(166), floatp(64)),
			RecordedBy:       "Nurse Ko",
		},
		{
			ID:               idx.New().String(),
			PatientID:        kim.ID,
			RecordedAt:       now.AddDate(0, 0, -365).UTC(),
			SystolicBP:       intp(118),
			DiastolicBP:      intp(76),
			HeartRate:        intp(64),
			Temperature:      floatp(98.6),
			RespiratoryRate:  intp(14),
			OxygenSaturation: intp(99),
			Weight:           floatp(175),
			Height:           floatp(70),
			BMI:              computeBMI(floatp(175), floatp(70)),
			RecordedBy:       "Nurse Delgado",
		},
		{
			ID:               idx.New().String(),
			PatientID:        alvarez.ID,
			RecordedAt:       now.AddDate(0, 0, -14).UTC(),
			SystolicBP:       intp(124),
			DiastolicBP:      intp(80),
			HeartRate:        intp(68),
			Temperature:      floatp(97.9),
			OxygenSaturation: intp(98),
			Weight:           floatp(142),
			Height:           floatp(62),
			BMI:              computeBMI(floatp(142), floatp(62)),
			RecordedBy:       "Nurse Delgado",
		},
	}

	err = s.WithTx(ctx, func(tx store.Tx) error {
		for _, p := range providers {
			if err := tx.Providers().CreateProvider(ctx, p); err != nil {
				return err
			}
		}
		for _, p := range patients {
			if err := tx.Patients().CreatePatient(ctx, p); err != nil {
				return err
			}
		}
		for _, a := range appointments {
			if err := tx.Appointments().CreateAppointment(ctx, a); err != nil {
				return err
			}
		}
		for _, m := range medications {
			if err := tx.Medications().CreateMedication(ctx, m); err != nil {
				return err
			}
		}
		for _, a := range allergies {
			if err := tx.Allergies().CreateAllergy(ctx, a); err != nil {
				return err
			}
		}
		for _, l := range labResults {
			if err := tx.LabResults().CreateLabResult(ctx, l); err != nil {
				return err
			}
		}
		for _, v := range vitalSigns {
			if err := tx.VitalSigns().CreateVitalSign(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("seed_demo_data", err)
	}

	log.Info("demo data seeded",
		slog.Int("providers", len(providers)),
		slog.Int("patients", len(patients)),
		slog.Int("appointments", len(appointments)),
	)
	return nil
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }
