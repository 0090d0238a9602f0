package domain

import "time"

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked visit. Date is a "YYYY-MM-DD" civil date and Time
// a "HH:MM" wall-clock time; a provider can hold at most one scheduled
// appointment per date and time slot.
type Appointment struct {
	ID              string
	AppointmentID   string // business identifier, e.g. "APT3B91E0"
	PatientID       string
	ProviderID      string
	Date            string
	Time            string
	DurationMinutes int
	Type            string
	Department      string
	Location        string
	Status          string
	Reason          string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
