package domain

import "time"

// VitalSign is one set of measurements taken at an instant. RecordedAt is a
// real timestamp, not a civil date. Measurements are nullable; only what
// was actually measured is set.
type VitalSign struct {
	ID        string
	PatientID string

	RecordedAt time.Time

	SystolicBP       *int
	DiastolicBP      *int
	HeartRate        *int
	Temperature      *float64 // Fahrenheit
	RespiratoryRate  *int
	OxygenSaturation *int     // percent
	Weight           *float64 // pounds
	Height           *float64 // inches
	BMI              *float64 // derived from weight and height when both present

	RecordedBy string
	Notes      string
	CreatedAt  time.Time
}
