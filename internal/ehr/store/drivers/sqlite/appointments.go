package sqlite

import (
	"context"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
)

type appointmentsRepo struct {
	db querier
}

func (r *appointmentsRepo) ListAppointmentsByPatient(ctx context.Context, patientID, status string) ([]store.AppointmentDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.appointment_id, a.patient_id, a.provider_id,
			a.date, a.time, a.duration_minutes, a.type, a.department, a.location,
			a.status, a.reason, a.notes, a.created_at, a.updated_at,
			p.first_name, p.last_name
		FROM appointments a
		JOIN providers p ON p.id = a.provider_id
		WHERE a.patient_id = ? AND (? = '' OR a.status = ?)
		ORDER BY a.date DESC, a.time DESC`,
		patientID, status, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []store.AppointmentDetail
	for rows.Next() {
		var (
			a          domain.Appointment
			first, last string
		)
		if err := rows.Scan(
			&a.ID, &a.AppointmentID, &a.PatientID, &a.ProviderID,
			&a.Date, &a.Time, &a.DurationMinutes, &a.Type, &a.Department, &a.Location,
			&a.Status, &a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
			&first, &last,
		); err != nil {
			return nil, err
		}
		details = append(details, store.AppointmentDetail{
			Appointment:  a,
			ProviderName: domain.Provider{FirstName: first, LastName: last}.DisplayName(),
		})
	}
	return details, rows.Err()
}

func (r *appointmentsRepo) CreateAppointment(ctx context.Context, a domain.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (id, appointment_id, patient_id, provider_id, date, time, duration_minutes, type, department, location, status, reason, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.AppointmentID, a.PatientID, a.ProviderID, a.Date, a.Time,
		a.DurationMinutes, a.Type, a.Department, a.Location, a.Status, a.Reason, a.Notes,
	)
	return mapConflict(err)
}

func (r *appointmentsRepo) SlotTaken(ctx context.Context, providerID, date, timeOfDay string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE provider_id = ? AND date = ? AND time = ? AND status = 'scheduled'
		)`,
		providerID, date, timeOfDay).Scan(&taken)
	return taken, err
}
