package sqlite

import (
	"context"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
)

type patientsRepo struct {
	db querier
}

const patientColumns = `id, mrn, first_name, last_name, dob, gender, ssn, email, phone, street, city, state, zip_code, insurance_provider, policy_number, group_number, emergency_contact_name, emergency_contact_relationship, emergency_contact_phone, created_at, updated_at`

func scanPatient(row rowScanner) (domain.Patient, error) {
	var p domain.Patient
	if err := row.Scan(
		&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DOB, &p.Gender, &p.SSN, &p.Email, &p.Phone,
		&p.Street, &p.City, &p.State, &p.ZipCode,
		&p.InsuranceProvider, &p.PolicyNumber, &p.GroupNumber,
		&p.EmergencyContactName, &p.EmergencyContactRelationship, &p.EmergencyContactPhone,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

func (r *patientsRepo) GetPatientByMRN(ctx context.Context, mrn string) (domain.Patient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE mrn = ?`, mrn)
	p, err := scanPatient(row)
	if err != nil {
		return domain.Patient{}, mapNotFound(err)
	}
	return p, nil
}

func (r *patientsRepo) GetPatientByID(ctx context.Context, id string) (domain.Patient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = ?`, id)
	p, err := scanPatient(row)
	if err != nil {
		return domain.Patient{}, mapNotFound(err)
	}
	return p, nil
}

func (r *patientsRepo) SearchPatients(ctx context.Context, term string, limit int) ([]domain.Patient, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+patientColumns+` FROM patients
		WHERE first_name LIKE ? OR last_name LIKE ? OR mrn LIKE ?
		ORDER BY last_name, first_name
		LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *patientsRepo) CreatePatient(ctx context.Context, p domain.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, mrn, first_name, last_name, dob, gender, ssn, email, phone,
			street, city, state, zip_code,
			insurance_provider, policy_number, group_number,
			emergency_contact_name, emergency_contact_relationship, emergency_contact_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.MRN, p.FirstName, p.LastName, p.DOB, p.Gender, p.SSN, p.Email, p.Phone,
		p.Street, p.City, p.State, p.ZipCode,
		p.InsuranceProvider, p.PolicyNumber, p.GroupNumber,
		p.EmergencyContactName, p.EmergencyContactRelationship, p.EmergencyContactPhone,
	)
	return mapConflict(err)
}

func (r *patientsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
