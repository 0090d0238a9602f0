package sqlite

import (
	"context"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

type labResultsRepo struct {
	db querier
}

const labResultColumns = `id, order_id, patient_id, test_name, ordered_date, collected_date, resulted_date, status, ordered_by, results_json, created_at, updated_at`

func scanLabResult(row rowScanner) (domain.LabResult, error) {
	var l domain.LabResult
	if err := row.Scan(
		&l.ID, &l.OrderID, &l.PatientID, &l.TestName, &l.OrderedDate,
		&l.CollectedDate, &l.ResultedDate, &l.Status, &l.OrderedBy,
		&l.ResultsJSON, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return domain.LabResult{}, err
	}
	return l, nil
}

func (r *labResultsRepo) ListLabResultsByPatient(ctx context.Context, patientID string, limit int) ([]domain.LabResult, error) {
	query := `
		SELECT ` + labResultColumns + ` FROM lab_results
		WHERE patient_id = ?
		ORDER BY resulted_date DESC, id DESC`
	args := []any{patientID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.LabResult
	for rows.Next() {
		l, err := scanLabResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, l)
	}
	return results, rows.Err()
}

func (r *labResultsRepo) CreateLabResult(ctx context.Context, l domain.LabResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lab_results (id, order_id, patient_id, test_name, ordered_date, collected_date, resulted_date, status, ordered_by, results_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.OrderID, l.PatientID, l.TestName, l.OrderedDate,
		l.CollectedDate, l.ResultedDate, l.Status, l.OrderedBy, l.ResultsJSON,
	)
	return mapConflict(err)
}
