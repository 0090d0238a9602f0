package sqlite

import (
	"context"
	"database/sql"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

type vitalSignsRepo struct {
	db querier
}

const vitalSignColumns = `id, patient_id, recorded_at, systolic_bp, diastolic_bp, heart_rate, temperature, respiratory_rate, oxygen_saturation, weight, height, bmi, recorded_by, notes, created_at`

func scanVitalSign(row rowScanner) (domain.VitalSign, error) {
	var (
		v                          domain.VitalSign
		systolic, diastolic        sql.NullInt64
		heartRate, respiratoryRate sql.NullInt64
		oxygenSaturation           sql.NullInt64
		temperature                sql.NullFloat64
		weight, height, bmi        sql.NullFloat64
	)
	if err := row.Scan(
		&v.ID, &v.PatientID, &v.RecordedAt,
		&systolic, &diastolic, &heartRate, &temperature, &respiratoryRate,
		&oxygenSaturation, &weight, &height, &bmi,
		&v.RecordedBy, &v.Notes, &v.CreatedAt,
	); err != nil {
		return domain.VitalSign{}, err
	}
	v.SystolicBP = mapNullIntPtr(systolic)
	v.DiastolicBP = mapNullIntPtr(diastolic)
	v.HeartRate = mapNullIntPtr(heartRate)
	v.Temperature = mapNullFloatPtr(temperature)
	v.RespiratoryRate = mapNullIntPtr(respiratoryRate)
	v.OxygenSaturation = mapNullIntPtr(oxygenSaturation)
	v.Weight = mapNullFloatPtr(weight)
	v.Height = mapNullFloatPtr(height)
	v.BMI = mapNullFloatPtr(bmi)
	return v, nil
}

func (r *vitalSignsRepo) ListVitalSignsByPatient(ctx context.Context, patientID string, limit int) ([]domain.VitalSign, error) {
	query := `
		SELECT ` + vitalSignColumns + ` FROM vital_signs
		WHERE patient_id = ?
		ORDER BY recorded_at DESC, id DESC`
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

	var vitals []domain.VitalSign
	for rows.Next() {
		v, err := scanVitalSign(rows)
		if err != nil {
			return nil, err
		}
		vitals = append(vitals, v)
	}
	return vitals, rows.Err()
}

func (r *vitalSignsRepo) CreateVitalSign(ctx context.Context, v domain.VitalSign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vital_signs (id, patient_id, recorded_at, systolic_bp, diastolic_bp, heart_rate, temperature, respiratory_rate, oxygen_saturation, weight, height, bmi, recorded_by, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.PatientID, v.RecordedAt,
		mapOptionalInt(v.SystolicBP), mapOptionalInt(v.DiastolicBP), mapOptionalInt(v.HeartRate),
		mapOptionalFloat(v.Temperature), mapOptionalInt(v.RespiratoryRate), mapOptionalInt(v.OxygenSaturation),
		mapOptionalFloat(v.Weight), mapOptionalFloat(v.Height), mapOptionalFloat(v.BMI),
		v.RecordedBy, v.Notes,
	)
	return mapConflict(err)
}
