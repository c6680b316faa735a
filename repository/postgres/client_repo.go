package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

const clientColumns = `id, user_id, name, cpf_cnpj, client_type,
	birth_date, nationality, birth_place, marital_status, profession,
	mothers_name, fathers_name, email, phone, secondary_phone,
	documents, address, is_minor, guardian,
	lgpd_consent, lgpd_consent_date, notes, created_at, updated_at`

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation of ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) repository.ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) GetByID(ctx context.Context, id, userID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND user_id = $2`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanClient(row)
}

func (r *clientRepository) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + `
	FROM clients
	WHERE user_id = $1
	  AND ($2 = '' OR client_type = $2)
	ORDER BY name ASC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		string(filter.ClientType),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClients(rows)
}

func (r *clientRepository) Search(ctx context.Context, userID, query string, limit int) ([]domain.Client, error) {
	// Digits-only variant matches punctuated cpf_cnpj and phone columns.
	clean := strings.NewReplacer(".", "", "-", "", "(", "", ")", "", "/", "", " ", "").Replace(query)

	const sql = `SELECT ` + clientColumns + `
	FROM clients
	WHERE user_id = $1
	  AND (
		name ILIKE '%' || $2 || '%'
		OR email ILIKE '%' || $2 || '%'
		OR regexp_replace(cpf_cnpj, '[^0-9]', '', 'g') ILIKE '%' || $3 || '%'
		OR regexp_replace(phone, '[^0-9]', '', 'g') ILIKE '%' || $3 || '%'
		OR regexp_replace(secondary_phone, '[^0-9]', '', 'g') ILIKE '%' || $3 || '%'
	  )
	ORDER BY name ASC
	LIMIT $4
	`
	rows, err := r.pool.Query(ctx, sql, userID, query, clean, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClients(rows)
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client == nil {
		return nil, domain.ErrInvalidPayload
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO clients (id, user_id, name, cpf_cnpj, client_type,
		birth_date, nationality, birth_place, marital_status, profession,
		mothers_name, fathers_name, email, phone, secondary_phone,
		documents, address, is_minor, guardian,
		lgpd_consent, lgpd_consent_date, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22)
	RETURNING created_at, updated_at
	`

	var consentDate interface{}
	if client.LGPDConsentDate != nil {
		consentDate = client.LGPDConsentDate.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.CPFCNPJ,
		string(client.ClientType),
		client.BirthDate,
		client.Nationality,
		client.BirthPlace,
		string(client.MaritalStatus),
		client.Profession,
		client.MothersName,
		client.FathersName,
		client.Email,
		client.Phone,
		client.SecondaryPhone,
		marshalJSON(client.Documents),
		marshalJSON(client.Address),
		client.IsMinor,
		marshalJSON(client.Guardian),
		client.LGPDConsent,
		consentDate,
		client.Notes,
	).Scan(&client.CreatedAt, &client.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateDocument
		}
		return nil, err
	}

	return client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	if client == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE clients
	SET name = $3,
		cpf_cnpj = $4,
		client_type = $5,
		birth_date = $6,
		nationality = $7,
		birth_place = $8,
		marital_status = $9,
		profession = $10,
		mothers_name = $11,
		fathers_name = $12,
		email = $13,
		phone = $14,
		secondary_phone = $15,
		documents = $16,
		address = $17,
		is_minor = $18,
		guardian = $19,
		lgpd_consent = $20,
		lgpd_consent_date = $21,
		notes = $22,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	var consentDate interface{}
	if client.LGPDConsentDate != nil {
		consentDate = client.LGPDConsentDate.UTC()
	}

	if err := r.pool.QueryRow(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.CPFCNPJ,
		string(client.ClientType),
		client.BirthDate,
		client.Nationality,
		client.BirthPlace,
		string(client.MaritalStatus),
		client.Profession,
		client.MothersName,
		client.FathersName,
		client.Email,
		client.Phone,
		client.SecondaryPhone,
		marshalJSON(client.Documents),
		marshalJSON(client.Address),
		client.IsMinor,
		marshalJSON(client.Guardian),
		client.LGPDConsent,
		consentDate,
		client.Notes,
	).Scan(&client.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrClientNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocument
		}
		return err
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM clients WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepository) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(id) FROM clients WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func scanClient(row scanner) (*domain.Client, error) {
	var client domain.Client
	var (
		clientType, maritalStatus    string
		documents, address, guardian []byte
		consentDate                  *time.Time
	)

	if err := row.Scan(
		&client.ID,
		&client.UserID,
		&client.Name,
		&client.CPFCNPJ,
		&clientType,
		&client.BirthDate,
		&client.Nationality,
		&client.BirthPlace,
		&maritalStatus,
		&client.Profession,
		&client.MothersName,
		&client.FathersName,
		&client.Email,
		&client.Phone,
		&client.SecondaryPhone,
		&documents,
		&address,
		&client.IsMinor,
		&guardian,
		&client.LGPDConsent,
		&consentDate,
		&client.Notes,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	client.ClientType = domain.ClientType(clientType)
	client.MaritalStatus = domain.MaritalStatus(maritalStatus)
	client.LGPDConsentDate = consentDate
	if len(documents) > 0 {
		_ = json.Unmarshal(documents, &client.Documents)
	}
	if len(address) > 0 {
		_ = json.Unmarshal(address, &client.Address)
	}
	if len(guardian) > 0 {
		_ = json.Unmarshal(guardian, &client.Guardian)
	}

	return &client, nil
}

func collectClients(rows pgx.Rows) ([]domain.Client, error) {
	var clients []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
