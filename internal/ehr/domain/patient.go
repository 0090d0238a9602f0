package domain

import "time"

// Patient holds demographics for one person. Civil dates such as DOB are
// "YYYY-MM-DD" strings; they have no timezone and never shift.
type Patient struct {
	ID        string
	MRN       string // medical record number, e.g. "MRN4F2A1C"
	FirstName string
	LastName  string
	DOB       string
	Gender    string
	SSN       string
	Email     string
	Phone     string

	// Address
	Street  string
	City    string
	State   string
	ZipCode string

	// Insurance
	InsuranceProvider string
	PolicyNumber      string
	GroupNumber       string

	// Emergency contact
	EmergencyContactName         string
	EmergencyContactRelationship string
	EmergencyContactPhone        string

	CreatedAt time.Time
	UpdatedAt time.Time
}
