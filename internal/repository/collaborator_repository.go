package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/domain"
)

// CollaboratorRepository defines persistence access for collaborators.
type CollaboratorRepository interface {
	Create(ctx context.Context, c *domain.Collaborator) error
	GetByID(ctx context.Context, id int64) (*domain.Collaborator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Collaborator, error)
	GetByFullName(ctx context.Context, fullName string) (*domain.Collaborator, error)
	List(ctx context.Context) ([]domain.Collaborator, error)
	Update(ctx context.Context, c *domain.Collaborator) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

type collaboratorRepository struct {
	pool *pgxpool.Pool
}

// NewCollaboratorRepository returns a Postgres-backed implementation.
func NewCollaboratorRepository(pool *pgxpool.Pool) CollaboratorRepository {
	return &collaboratorRepository{pool: pool}
}

const collaboratorColumns = `id, first_name, last_name, email, phone, password_hash, department, is_superuser, created, updated`

func scanCollaborator(row pgx.Row) (*domain.Collaborator, error) {
	var (
		c          domain.Collaborator
		department *string
	)
	if err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.PasswordHash,
		&department,
		&c.IsSuperuser,
		&c.Created,
		&c.Updated,
	); err != nil {
		return nil, err
	}
	if department != nil {
		c.Department = domain.Department(*department)
	}
	return &c, nil
}

func (r *collaboratorRepository) Create(ctx context.Context, c *domain.Collaborator) error {
	const query = `
        INSERT INTO collaborators (first_name, last_name, email, phone, password_hash, department, is_superuser)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
        RETURNING id, created, updated`

	return r.pool.QueryRow(ctx, query,
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
		c.PasswordHash,
		string(c.Department),
		c.IsSuperuser,
	).Scan(&c.ID, &c.Created, &c.Updated)
}

func (r *collaboratorRepository) GetByID(ctx context.Context, id int64) (*domain.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE id=$1`
	return scanCollaborator(r.pool.QueryRow(ctx, query, id))
}

func (r *collaboratorRepository) GetByEmail(ctx context.Context, email string) (*domain.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE email=$1`
	return scanCollaborator(r.pool.QueryRow(ctx, query, email))
}

// GetByFullName matches "<first> <last>" the way FullName renders it.
func (r *collaboratorRepository) GetByFullName(ctx context.Context, fullName string) (*domain.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators
        WHERE TRIM(first_name || ' ' || last_name) = $1
        ORDER BY id LIMIT 1`
	return scanCollaborator(r.pool.QueryRow(ctx, query, fullName))
}

func (r *collaboratorRepository) List(ctx context.Context) ([]domain.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE NOT is_superuser ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Collaborator
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *collaboratorRepository) Update(ctx context.Context, c *domain.Collaborator) error {
	const query = `
        UPDATE collaborators
        SET first_name=$2, last_name=$3, email=$4, phone=$5, password_hash=$6,
            department=NULLIF($7, ''), updated=NOW()
        WHERE id=$1
        RETURNING updated`

	return r.pool.QueryRow(ctx, query,
		c.ID,
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
		c.PasswordHash,
		string(c.Department),
	).Scan(&c.Updated)
}

func (r *collaboratorRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM collaborators WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *collaboratorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS(SELECT 1 FROM collaborators WHERE email=$1)`, email)
}

func (r *collaboratorRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS(SELECT 1 FROM collaborators WHERE phone=$1)`, phone)
}

func exists(ctx context.Context, pool *pgxpool.Pool, query string, arg any) (bool, error) {
	var found bool
	if err := pool.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
