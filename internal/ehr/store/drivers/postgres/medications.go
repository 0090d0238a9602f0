package postgres

import (
	"context"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

type medicationsRepo struct {
	db querier
}

const medicationColumns = `id, medication_id, patient_id, name, dosage, frequency, route, prescribed_date, prescriber, status, refills_remaining, notes, created_at, updated_at`

func scanMedication(row rowScanner) (domain.Medication, error) {
	var m domain.Medication
	if err := row.Scan(
		&m.ID, &m.MedicationID, &m.PatientID, &m.Name, &m.Dosage, &m.Frequency,
		&m.Route, &m.PrescribedDate, &m.Prescriber, &m.Status,
		&m.RefillsRemaining, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return domain.Medication{}, err
	}
	return m, nil
}

func (r *medicationsRepo) ListActiveMedicationsByPatient(ctx context.Context, patientID string) ([]domain.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+` FROM medications
		WHERE patient_id = $1 AND status = 'active'
		ORDER BY prescribed_date DESC, id DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medications []domain.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		medications = append(medications, m)
	}
	return medications, rows.Err()
}

func (r *medicationsRepo) CreateMedication(ctx context.Context, m domain.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (id, medication_id, patient_id, name, dosage, frequency, route, prescribed_date, prescriber, status, refills_remaining, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.MedicationID, m.PatientID, m.Name, m.Dosage, m.Frequency,
		m.Route, m.PrescribedDate, m.Prescriber, m.Status, m.RefillsRemaining, m.Notes,
	)
	return mapConflict(err)
}
