package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/domain"
)

// ClientRepository handles persistence for clients and their companies.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByFullName(ctx context.Context, fullName string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

const companyUpsert = `
        INSERT INTO companies (name) VALUES ($1)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id`

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates the repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

// Create inserts the client, creating its company on first use.
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const clientQuery = `
        INSERT INTO clients (first_name, last_name, email, phone, company_id, contact_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created, updated`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.QueryRow(ctx, companyUpsert, client.Company.Name).Scan(&client.Company.ID); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, clientQuery,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Company.ID,
		client.ContactID,
	).Scan(&client.ID, &client.Created, &client.Updated); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const clientSelect = `
        SELECT c.id, c.first_name, c.last_name, c.email, c.phone, co.id, co.name,
               c.contact_id, COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''), c.created, c.updated
        FROM clients c
        JOIN companies co ON co.id = c.company_id
        LEFT JOIN collaborators u ON u.id = c.contact_id`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Phone,
		&client.Company.ID,
		&client.Company.Name,
		&client.ContactID,
		&client.ContactName,
		&client.Created,
		&client.Updated,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetByFullName(ctx context.Context, fullName string) (*domain.Client, error) {
	query := clientSelect + `
        WHERE c.first_name || ' ' || c.last_name = $1
        ORDER BY c.id LIMIT 1`
	return scanClient(r.pool.QueryRow(ctx, query, fullName))
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, clientSelect+` ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

// Update saves every editable field, creating the company on first use.
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const clientQuery = `
        UPDATE clients
        SET first_name=$2, last_name=$3, email=$4, phone=$5, company_id=$6, contact_id=$7, updated=NOW()
        WHERE id=$1
        RETURNING updated`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.QueryRow(ctx, companyUpsert, client.Company.Name).Scan(&client.Company.ID); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, clientQuery,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Company.ID,
		client.ContactID,
	).Scan(&client.Updated); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *clientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS(SELECT 1 FROM clients WHERE email=$1)`, email)
}

func (r *clientRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS(SELECT 1 FROM clients WHERE phone=$1)`, phone)
}
