package domain

import "time"

// Lab result statuses.
const (
	LabPending    = "pending"
	LabInProgress = "in_progress"
	LabFinal      = "final"
)

// LabResult is one laboratory order and its outcome. The date fields are
// "YYYY-MM-DD" civil dates; CollectedDate and ResultedDate stay empty until
// the order progresses. ResultsJSON holds the analyte values as a JSON
// document, decoded only at the presentation layer.
type LabResult struct {
	ID            string
	OrderID       string // business identifier, e.g. "ORD9A31B7"
	PatientID     string
	TestName      string
	OrderedDate   string
	CollectedDate string
	ResultedDate  string
	Status        string
	OrderedBy     string
	ResultsJSON   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
