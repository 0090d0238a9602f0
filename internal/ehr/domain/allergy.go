package domain

import "time"

// Allergy severities.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Allergy is one allergen on a patient's record. OnsetDate is a
// "YYYY-MM-DD" civil date and may be empty when unknown.
type Allergy struct {
	ID        string
	PatientID string
	Allergen  string
	Reaction  string
	Severity  string
	OnsetDate string
	Status    string // "active" or "inactive"
	Notes     string
	CreatedAt time.Time
}
