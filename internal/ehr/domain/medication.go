package domain

import "time"

// Medication statuses.
const (
	MedicationActive       = "active"
	MedicationDiscontinued = "discontinued"
	MedicationCompleted    = "completed"
)

// Medication is one prescription on a patient's record. PrescribedDate is a
// "YYYY-MM-DD" civil date.
type Medication struct {
	ID               string
	MedicationID     string // business identifier, e.g. "MED7C04D2"
	PatientID        string
	Name             string
	Dosage           string
	Frequency        string
	Route            string
	PrescribedDate   string
	Prescriber       string
	Status           string
	RefillsRemaining int
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
