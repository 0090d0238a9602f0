package domain

import "time"

// Provider is a healthcare provider. NPI is the national provider
// identifier used as the public lookup key.
type Provider struct {
	ID                   string
	NPI                  string
	FirstName            string
	LastName             string
	Specialty            string
	Department           string
	Phone                string
	Email                string
	LicenseNumber        string
	LicenseState         string
	AcceptingNewPatients bool
	CreatedAt            time.Time
}

// DisplayName is how providers are rendered in tool output.
func (p Provider) DisplayName() string {
	return "Dr. " + p.FirstName + " " + p.LastName
}
