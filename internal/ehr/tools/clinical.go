package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/curalinkhq/curalink/internal/ehr/service"
)

// Argument structs double as the published input schemas. Fields without
// omitempty are required arguments.

type getPatientArgs struct {
	MRN string `json:"mrn" jsonschema:"description=Patient MRN"`
}

type searchPatientsArgs struct {
	SearchTerm string `json:"search_term" jsonschema:"description=Search term"`
}

type createPatientArgs struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob" jsonschema:"description=Date of birth (YYYY-MM-DD)"`
	Gender    string `json:"gender,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type getAppointmentsArgs struct {
	MRN    string `json:"mrn"`
	Status string `json:"status,omitempty" jsonschema:"description=Filter by status; all when omitted"`
}

type scheduleAppointmentArgs struct {
	MRN         string `json:"mrn"`
	ProviderNPI string `json:"provider_npi"`
	Date        string `json:"date" jsonschema:"description=Appointment date (YYYY-MM-DD)"`
	Time        string `json:"time" jsonschema:"description=Appointment time (HH:MM)"`
	Reason      string `json:"reason,omitempty"`
}

type getMedicationsArgs struct {
	MRN string `json:"mrn"`
}

type prescribeMedicationArgs struct {
	MRN            string `json:"mrn"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Refills        int    `json:"refills,omitempty"`
}

type getLabResultsArgs struct {
	MRN string `json:"mrn"`
}

type getVitalSignsArgs struct {
	MRN string `json:"mrn"`
}

type recordVitalSignsArgs struct {
	MRN              string   `json:"mrn"`
	SystolicBP       *int     `json:"systolic_bp,omitempty"`
	DiastolicBP      *int     `json:"diastolic_bp,omitempty"`
	HeartRate        *int     `json:"heart_rate,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	RespiratoryRate  *int     `json:"respiratory_rate,omitempty"`
	OxygenSaturation *int     `json:"oxygen_saturation,omitempty"`
	Weight           *float64 `json:"weight,omitempty" jsonschema:"description=Weight in pounds"`
	Height           *float64 `json:"height,omitempty" jsonschema:"description=Height in inches"`
}

type getAllergiesArgs struct {
	MRN string `json:"mrn"`
}

type searchProvidersArgs struct {
	SearchTerm string `json:"search_term" jsonschema:"description=Provider name or specialty"`
}

type getProviderArgs struct {
	NPI string `json:"npi" jsonschema:"description=National provider identifier"`
}

// Result envelopes mirror the documented tool output shapes. Pointer
// fields marshal as null when absent; that distinction is part of the
// contract (e.g. a pending lab has resulted_date null, not "").

type patientAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type patientInsurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
}

type patientDetail struct {
	MRN       string            `json:"mrn"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	DOB       string            `json:"dob"`
	Gender    string            `json:"gender"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Address   patientAddress    `json:"address"`
	Insurance *patientInsurance `json:"insurance"`
}

type patientEnvelope struct {
	Status  string        `json:"status"`
	Patient patientDetail `json:"patient"`
}

type patientSummary struct {
	MRN   string `json:"mrn"`
	Name  string `json:"name"`
	DOB   string `json:"dob"`
	Email string `json:"email"`
}

type patientSearchEnvelope struct {
	Status   string           `json:"status"`
	Count    int              `json:"count"`
	Patients []patientSummary `json:"patients"`
}

type createdPatient struct {
	MRN       string `json:"mrn"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
}

type createPatientEnvelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Patient createdPatient `json:"patient"`
}

type appointmentSummary struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Type          string `json:"type"`
	Provider      string `json:"provider"`
	Department    string `json:"department"`
	Location      string `json:"location"`
	Status        string `json:"status"`
	Reason        string `json:"reason"`
}

type appointmentListEnvelope struct {
	Status       string               `json:"status"`
	MRN          string               `json:"mrn"`
	Appointments []appointmentSummary `json:"appointments"`
}

type scheduledAppointment struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Provider      string `json:"provider"`
	Department    string `json:"department"`
}

type scheduleAppointmentEnvelope struct {
	Status      string               `json:"status"`
	Message     string               `json:"message"`
	Appointment scheduledAppointment `json:"appointment"`
}

type medicationSummary struct {
	MedicationID     string `json:"medication_id"`
	Name             string `json:"name"`
	Dosage           string `json:"dosage"`
	Frequency        string `json:"frequency"`
	Route            string `json:"route"`
	PrescribedDate   string `json:"prescribed_date"`
	Prescriber       string `json:"prescriber"`
	RefillsRemaining int    `json:"refills_remaining"`
}

type medicationListEnvelope struct {
	Status      string              `json:"status"`
	MRN         string              `json:"mrn"`
	Medications []medicationSummary `json:"medications"`
}

type prescribedMedication struct {
	MedicationID string `json:"medication_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
}

type prescribeMedicationEnvelope struct {
	Status     string               `json:"status"`
	Message    string               `json:"message"`
	Medication prescribedMedication `json:"medication"`
}

type labResultSummary struct {
	OrderID      string  `json:"order_id"`
	TestName     string  `json:"test_name"`
	OrderedDate  string  `json:"ordered_date"`
	ResultedDate *string `json:"resulted_date"`
	Status       string  `json:"status"`
	Results      any     `json:"results"`
}

type labResultListEnvelope struct {
	Status     string             `json:"status"`
	MRN        string             `json:"mrn"`
	LabResults []labResultSummary `json:"lab_results"`
}

type vitalSignSummary struct {
	RecordedDate     string   `json:"recorded_date"`
	BloodPressure    *string  `json:"blood_pressure"`
	HeartRate        *int     `json:"heart_rate"`
	Temperature      *float64 `json:"temperature"`
	OxygenSaturation *int     `json:"oxygen_saturation"`
	Weight           *float64 `json:"weight"`
	BMI              *float64 `json:"bmi"`
	RecordedBy       string   `json:"recorded_by"`
}

type vitalSignListEnvelope struct {
	Status     string             `json:"status"`
	MRN        string             `json:"mrn"`
	VitalSigns []vitalSignSummary `json:"vital_signs"`
}

type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type allergySummary struct {
	Allergen  string  `json:"allergen"`
	Reaction  string  `json:"reaction"`
	Severity  string  `json:"severity"`
	OnsetDate *string `json:"onset_date"`
}

type allergyListEnvelope struct {
	Status    string           `json:"status"`
	MRN       string           `json:"mrn"`
	Allergies []allergySummary `json:"allergies"`
}

type providerSummary struct {
	NPI       string `json:"npi"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type providerSearchEnvelope struct {
	Status    string            `json:"status"`
	Count     int               `json:"count"`
	Providers []providerSummary `json:"providers"`
}

type providerDetail struct {
	NPI           string `json:"npi"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	FullName      string `json:"full_name"`
	Specialty     string `json:"specialty"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	LicenseNumber string `json:"license_number"`
	LicenseState  string `json:"license_state"`
}

type providerEnvelope struct {
	Status   string         `json:"status"`
	Provider providerDetail `json:"provider"`
}

// ClinicalTools builds the protected clinical-record tools.
func ClinicalTools(clinical *service.ClinicalService) []Tool {
	return []Tool{
		NewProtectedTool("get_patient", "Get patient by MRN",
			[]string{"read:patients"},
			func(ctx context.Context, args getPatientArgs) (any, error) {
				patient, err := clinical.GetPatientByMRN(ctx, args.MRN)
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				detail := patientDetail{
					MRN:       patient.MRN,
					FirstName: patient.FirstName,
					LastName:  patient.LastName,
					DOB:       patient.DOB,
					Gender:    patient.Gender,
					Email:     patient.Email,
					Phone:     patient.Phone,
					Address: patientAddress{
						Street: patient.Street,
						City:   patient.City,
						State:  patient.State,
						Zip:    patient.ZipCode,
					},
				}
				if patient.InsuranceProvider != "" {
					detail.Insurance = &patientInsurance{
						Provider:     patient.InsuranceProvider,
						PolicyNumber: patient.PolicyNumber,
					}
				}

				return patientEnvelope{Status: "success", Patient: detail}, nil
			}),

		NewProtectedTool("search_patients", "Search patients by name",
			[]string{"read:patients"},
			func(ctx context.Context, args searchPatientsArgs) (any, error) {
				patients, err := clinical.SearchPatients(ctx, args.SearchTerm)
				if err != nil {
					return nil, err
				}

				results := make([]patientSummary, 0, len(patients))
				for _, p := range patients {
					results = append(results, patientSummary{
						MRN:   p.MRN,
						Name:  p.FirstName + " " + p.LastName,
						DOB:   p.DOB,
						Email: p.Email,
					})
				}

				return patientSearchEnvelope{
					Status:   "success",
					Count:    len(results),
					Patients: results,
				}, nil
			}),

		NewProtectedTool("create_patient", "Create new patient",
			[]string{"write:patients"},
			func(ctx context.Context, args createPatientArgs) (any, error) {
				patient, err := clinical.CreatePatient(ctx, service.NewPatient{
					FirstName: args.FirstName,
					LastName:  args.LastName,
					DOB:       args.DOB,
					Gender:    args.Gender,
					Email:     args.Email,
					Phone:     args.Phone,
				})
				if err != nil {
					return nil, err
				}

				return createPatientEnvelope{
					Status:  "success",
					Message: "Patient created successfully",
					Patient: createdPatient{
						MRN:       patient.MRN,
						FirstName: patient.FirstName,
						LastName:  patient.LastName,
						DOB:       patient.DOB,
					},
				}, nil
			}),

		NewProtectedTool("get_appointments", "Get patient appointments",
			[]string{"read:appointments"},
			func(ctx context.Context, args getAppointmentsArgs) (any, error) {
				status := args.Status
				if status == "all" {
					status = ""
				}

				details, err := clinical.AppointmentsForPatient(ctx, args.MRN, status)
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				results := make([]appointmentSummary, 0, len(details))
				for _, d := range details {
					results = append(results, appointmentSummary{
						AppointmentID: d.Appointment.AppointmentID,
						Date:          d.Appointment.Date,
						Time:          d.Appointment.Time,
						Type:          d.Appointment.Type,
						Provider:      d.ProviderName,
						Department:    d.Appointment.Department,
						Location:      d.Appointment.Location,
						Status:        d.Appointment.Status,
						Reason:        d.Appointment.Reason,
					})
				}

				return appointmentListEnvelope{
					Status:       "success",
					MRN:          args.MRN,
					Appointments: results,
				}, nil
			}),

		NewProtectedTool("schedule_appointment", "Schedule new appointment",
			[]string{"write:appointments"},
			func(ctx context.Context, args scheduleAppointmentArgs) (any, error) {
				appointment, provider, err := clinical.ScheduleAppointment(ctx, service.AppointmentRequest{
					MRN:         args.MRN,
					ProviderNPI: args.ProviderNPI,
					Date:        args.Date,
					Time:        args.Time,
					Reason:      args.Reason,
				})
				if err != nil {
					switch {
					case errors.Is(err, service.ErrPatientNotFound):
						return nil, failf("Patient with MRN %s not found", args.MRN)
					case errors.Is(err, service.ErrProviderNotFound):
						return nil, failf("Provider with NPI %s not found", args.ProviderNPI)
					case errors.Is(err, service.ErrSlotTaken):
						return nil, failf("Time slot already booked")
					default:
						return nil, err
					}
				}

				return scheduleAppointmentEnvelope{
					Status:  "success",
					Message: "Appointment scheduled successfully",
					Appointment: scheduledAppointment{
						AppointmentID: appointment.AppointmentID,
						Date:          appointment.Date,
						Time:          appointment.Time,
						Provider:      provider.DisplayName(),
						Department:    appointment.Department,
					},
				}, nil
			}),

		NewProtectedTool("get_medications", "Get patient medications",
			[]string{"read:medications"},
			func(ctx context.Context, args getMedicationsArgs) (any, error) {
				medications, err := clinical.ActiveMedications(ctx, args.MRN)
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				results := make([]medicationSummary, 0, len(medications))
				for _, m := range medications {
					results = append(results, medicationSummary{
						MedicationID:     m.MedicationID,
						Name:             m.Name,
						Dosage:           m.Dosage,
						Frequency:        m.Frequency,
						Route:            m.Route,
						PrescribedDate:   m.PrescribedDate,
						Prescriber:       m.Prescriber,
						RefillsRemaining: m.RefillsRemaining,
					})
				}

				return medicationListEnvelope{
					Status:      "success",
					MRN:         args.MRN,
					Medications: results,
				}, nil
			}),

		NewProtectedTool("prescribe_medication", "Prescribe new medication",
			[]string{"write:medications"},
			func(ctx context.Context, args prescribeMedicationArgs) (any, error) {
				medication, err := clinical.PrescribeMedication(ctx, service.PrescriptionRequest{
					MRN:       args.MRN,
					Name:      args.MedicationName,
					Dosage:    args.Dosage,
					Frequency: args.Frequency,
					Refills:   args.Refills,
				})
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				return prescribeMedicationEnvelope{
					Status:  "success",
					Message: "Medication prescribed successfully",
					Medication: prescribedMedication{
						MedicationID: medication.MedicationID,
						Name:         medication.Name,
						Dosage:       medication.Dosage,
						Frequency:    medication.Frequency,
					},
				}, nil
			}),

		NewProtectedTool("get_lab_results", "Get patient lab results",
			[]string{"read:labs"},
			func(ctx context.Context, args getLabResultsArgs) (any, error) {
				labs, err := clinical.LabResultsForPatient(ctx, args.MRN)
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				results := make([]labResultSummary, 0, len(labs))
				for _, lab := range labs {
					summary := labResultSummary{
						OrderID:     lab.OrderID,
						TestName:    lab.TestName,
						OrderedDate: lab.OrderedDate,
						Status:      lab.Status,
						Results:     parseLabResults(lab.ResultsJSON),
					}
					if lab.ResultedDate != "" {
						resulted := lab.ResultedDate
						summary.ResultedDate = &resulted
					}
					results = append(results, summary)
				}

				return labResultListEnvelope{
					Status:     "success",
					MRN:        args.MRN,
					LabResults: results,
				}, nil
			}),

		NewProtectedTool("get_vital_signs", "Get patient vital signs",
			[]string{"read:vitals"},
			func(ctx context.Context, args getVitalSignsArgs) (any, error) {
				vitals, err := clinical.VitalSignsForPatient(ctx, args.MRN)
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				results := make([]vitalSignSummary, 0, len(vitals))
				for _, v := range vitals {
					summary := vitalSignSummary{
						RecordedDate:     v.RecordedAt.Format("2006-01-02T15:04:05"),
						HeartRate:        v.HeartRate,
						Temperature:      v.Temperature,
						OxygenSaturation: v.OxygenSaturation,
						Weight:           v.Weight,
						BMI:              v.BMI,
						RecordedBy:       v.RecordedBy,
					}
					if v.SystolicBP != nil && v.DiastolicBP != nil {
						bp := fmt.Sprintf("%d/%d", *v.SystolicBP, *v.DiastolicBP)
						summary.BloodPressure = &bp
					}
					results = append(results, summary)
				}

				return vitalSignListEnvelope{
					Status:     "success",
					MRN:        args.MRN,
					VitalSigns: results,
				}, nil
			}),

		NewProtectedTool("record_vital_signs", "Record new vital signs",
			[]string{"write:vitals"},
			func(ctx context.Context, args recordVitalSignsArgs) (any, error) {
				_, err := clinical.RecordVitalSigns(ctx, service.VitalSignsInput{
					MRN:              args.MRN,
					SystolicBP:       args.SystolicBP,
					DiastolicBP:      args.DiastolicBP,
					HeartRate:        args.HeartRate,
					Temperature:      args.Temperature,
					RespiratoryRate:  args.RespiratoryRate,
					OxygenSaturation: args.OxygenSaturation,
					Weight:           args.Weight,
					Height:           args.Height,
				})
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				return statusEnvelope{
					Status:  "success",
					Message: "Vital signs recorded successfully",
				}, nil
			}),

		NewProtectedTool("get_allergies", "Get patient allergies",
			[]string{"read:allergies"},
			func(ctx context.Context, args getAllergiesArgs) (any, error) {
				allergies, err := clinical.ActiveAllergies(ctx, args.MRN)
				if err != nil {
					return nil, mapPatientErr(err, args.MRN)
				}

				results := make([]allergySummary, 0, len(allergies))
				for _, a := range allergies {
					summary := allergySummary{
						Allergen: a.Allergen,
						Reaction: a.Reaction,
						Severity: a.Severity,
					}
					if a.OnsetDate != "" {
						onset := a.OnsetDate
						summary.OnsetDate = &onset
					}
					results = append(results, summary)
				}

				return allergyListEnvelope{
					Status:    "success",
					MRN:       args.MRN,
					Allergies: results,
				}, nil
			}),

		NewProtectedTool("search_providers", "Search providers by name or specialty",
			[]string{"read:providers"},
			func(ctx context.Context, args searchProvidersArgs) (any, error) {
				providers, err := clinical.SearchProviders(ctx, args.SearchTerm)
				if err != nil {
					return nil, err
				}

				results := make([]providerSummary, 0, len(providers))
				for _, p := range providers {
					results = append(results, providerSummary{
						NPI:       p.NPI,
						Name:      p.DisplayName(),
						Specialty: p.Specialty,
						Phone:     p.Phone,
						Email:     p.Email,
					})
				}

				return providerSearchEnvelope{
					Status:    "success",
					Count:     len(results),
					Providers: results,
				}, nil
			}),

		NewProtectedTool("get_provider", "Get provider details by NPI",
			[]string{"read:providers"},
			func(ctx context.Context, args getProviderArgs) (any, error) {
				provider, err := clinical.GetProviderByNPI(ctx, args.NPI)
				if err != nil {
					if errors.Is(err, service.ErrProviderNotFound) {
						return nil, failf("Provider with NPI %s not found", args.NPI)
					}
					return nil, err
				}

				return providerEnvelope{
					Status: "success",
					Provider: providerDetail{
						NPI:           provider.NPI,
						FirstName:     provider.FirstName,
						LastName:      provider.LastName,
						FullName:      provider.DisplayName(),
						Specialty:     provider.Specialty,
						Phone:         provider.Phone,
						Email:         provider.Email,
						LicenseNumber: provider.LicenseNumber,
						LicenseState:  provider.LicenseState,
					},
				}, nil
			}),
	}
}

// mapPatientErr rewrites the patient-lookup sentinel into the caller-facing
// message; everything else passes through untouched.
func mapPatientErr(err error, mrn string) error {
	if errors.Is(err, service.ErrPatientNotFound) {
		return failf("Patient with MRN %s not found", mrn)
	}
	return err
}

// parseLabResults decodes the stored analyte document. Rows without one
// report an empty list rather than null.
func parseLabResults(resultsJSON string) any {
	if resultsJSON == "" {
		return []any{}
	}
	var doc any
	if err := json.Unmarshal([]byte(resultsJSON), &doc); err != nil {
		return []any{}
	}
	return doc
}
