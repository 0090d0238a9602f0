package postgres

import (
	"context"
	"database/sql"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
)

type clientsRepo struct {
	db querier
}

const clientColumns = `id, client_id, secret_hash, app_id, app_name, role, scopes, description, contact_email, rate_limit, active, last_used, created_at, updated_at`

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c        domain.Client
		role     string
		scopes   string
		lastUsed sql.NullTime
	)
	if err := row.Scan(
		&c.ID, &c.ClientID, &c.SecretHash, &c.AppID, &c.AppName,
		&role, &scopes, &c.Description, &c.ContactEmail,
		&c.RateLimit, &c.Active, &lastUsed, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Client{}, err
	}
	c.Role = domain.Role(role)
	c.Scopes = splitScopes(scopes)
	c.LastUsed = mapNullTimePtr(lastUsed)
	return c, nil
}

func (r *clientsRepo) GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE client_id = $1`, clientID)
	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, client_id, secret_hash, app_id, app_name, role, scopes, description, contact_email, rate_limit, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.ClientID, c.SecretHash, c.AppID, c.AppName, c.Role.String(),
		joinScopes(c.Scopes), c.Description, c.ContactEmail, c.RateLimit, c.Active,
	)
	return mapConflict(err)
}

func (r *clientsRepo) TouchClientLastUsed(ctx context.Context, clientID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET last_used = NOW() WHERE client_id = $1`, clientID)
	return err
}

func (r *clientsRepo) DeactivateClient(ctx context.Context, clientID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET active = FALSE, updated_at = NOW() WHERE client_id = $1`, clientID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
