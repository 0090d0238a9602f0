package sqlite

import (
	"context"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

type allergiesRepo struct {
	db querier
}

const allergyColumns = `id, patient_id, allergen, reaction, severity, onset_date, status, notes, created_at`

func scanAllergy(row rowScanner) (domain.Allergy, error) {
	var a domain.Allergy
	if err := row.Scan(
		&a.ID, &a.PatientID, &a.Allergen, &a.Reaction, &a.Severity,
		&a.OnsetDate, &a.Status, &a.Notes, &a.CreatedAt,
	); err != nil {
		return domain.Allergy{}, err
	}
	return a, nil
}

func (r *allergiesRepo) ListActiveAllergiesByPatient(ctx context.Context, patientID string) ([]domain.Allergy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+allergyColumns+` FROM allergies
		WHERE patient_id = ? AND status = 'active'
		ORDER BY created_at, id`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allergies []domain.Allergy
	for rows.Next() {
		a, err := scanAllergy(rows)
		if err != nil {
			return nil, err
		}
		allergies = append(allergies, a)
	}
	return allergies, rows.Err()
}

func (r *allergiesRepo) CreateAllergy(ctx context.Context, a domain.Allergy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO allergies (id, patient_id, allergen, reaction, severity, onset_date, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PatientID, a.Allergen, a.Reaction, a.Severity, a.OnsetDate, a.Status, a.Notes,
	)
	return mapConflict(err)
}
