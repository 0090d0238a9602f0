package postgres

import (
	"context"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

type providersRepo struct {
	db querier
}

const providerColumns = `id, npi, first_name, last_name, specialty, department, phone, email, license_number, license_state, accepting_new_patients, created_at`

func scanProvider(row rowScanner) (domain.Provider, error) {
	var p domain.Provider
	if err := row.Scan(
		&p.ID, &p.NPI, &p.FirstName, &p.LastName, &p.Specialty, &p.Department,
		&p.Phone, &p.Email, &p.LicenseNumber, &p.LicenseState,
		&p.AcceptingNewPatients, &p.CreatedAt,
	); err != nil {
		return domain.Provider{}, err
	}
	return p, nil
}

func (r *providersRepo) GetProviderByNPI(ctx context.Context, npi string) (domain.Provider, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE npi = $1`, npi)
	p, err := scanProvider(row)
	if err != nil {
		return domain.Provider{}, mapNotFound(err)
	}
	return p, nil
}

func (r *providersRepo) GetProviderByID(ctx context.Context, id string) (domain.Provider, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE id = $1`, id)
	p, err := scanProvider(row)
	if err != nil {
		return domain.Provider{}, mapNotFound(err)
	}
	return p, nil
}

func (r *providersRepo) SearchProviders(ctx context.Context, term string, limit int) ([]domain.Provider, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+providerColumns+` FROM providers
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR specialty ILIKE $1
		ORDER BY last_name, first_name
		LIMIT $2`,
		pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []domain.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func (r *providersRepo) CreateProvider(ctx context.Context, p domain.Provider) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO providers (id, npi, first_name, last_name, specialty, department, phone, email, license_number, license_state, accepting_new_patients)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.NPI, p.FirstName, p.LastName, p.Specialty, p.Department,
		p.Phone, p.Email, p.LicenseNumber, p.LicenseState, p.AcceptingNewPatients,
	)
	return mapConflict(err)
}
