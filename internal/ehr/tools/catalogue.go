package tools

import "github.com/curalinkhq/curalink/internal/ehr/service"

// NewCatalogue wires every gateway tool into one registry: the public
// authentication trio first, then the protected clinical tools.
func NewCatalogue(auth *service.AuthService, clients *service.ClientService, clinical *service.ClinicalService) *Registry {
	all := AuthTools(auth, clients)
	all = append(all, ClinicalTools(clinical)...)
	return NewRegistry(all...)
}
