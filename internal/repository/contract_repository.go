package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/domain"
)

// ContractRepository reads contracts.
type ContractRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
}

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository instantiates the repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

const contractSelect = `
        SELECT k.id, c.id, c.first_name || ' ' || c.last_name,
               c.contact_id, COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''),
               k.price, k.balance, k.signed, k.created, k.updated
        FROM contracts k
        JOIN clients c ON c.id = k.client_id
        LEFT JOIN collaborators u ON u.id = c.contact_id`

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var contract domain.Contract
	if err := row.Scan(
		&contract.ID,
		&contract.ClientID,
		&contract.ClientName,
		&contract.ContactID,
		&contract.ContactName,
		&contract.Price,
		&contract.Balance,
		&contract.Signed,
		&contract.Created,
		&contract.Updated,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	return scanContract(r.pool.QueryRow(ctx, contractSelect+` WHERE k.id=$1`, id))
}

func (r *contractRepository) List(ctx context.Context) ([]domain.Contract, error) {
	rows, err := r.pool.Query(ctx, contractSelect+` ORDER BY k.created, k.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *contract)
	}
	return result, rows.Err()
}
