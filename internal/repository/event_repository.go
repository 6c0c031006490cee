package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epicevents/crm/internal/domain"
)

// EventRepository handles persistence for events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	List(ctx context.Context) ([]domain.Event, error)
	ExistsForContract(ctx context.Context, contractID uuid.UUID) (bool, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates the repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (name, start_date, end_date, location, attendees, contract_id, contact_id, note)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created, updated`

	return r.pool.QueryRow(ctx, query,
		event.Name,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Attendees,
		event.ContractID,
		event.ContactID,
		event.Note,
	).Scan(&event.ID, &event.Created, &event.Updated)
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	const query = `
        SELECT e.id, e.name, e.start_date, e.end_date, e.location, e.attendees, e.contract_id,
               e.contact_id, COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''), e.note, e.created, e.updated
        FROM events e
        LEFT JOIN collaborators u ON u.id = e.contact_id
        ORDER BY e.start_date`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.StartDate,
			&event.EndDate,
			&event.Location,
			&event.Attendees,
			&event.ContractID,
			&event.ContactID,
			&event.ContactName,
			&event.Note,
			&event.Created,
			&event.Updated,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) ExistsForContract(ctx context.Context, contractID uuid.UUID) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS(SELECT 1 FROM events WHERE contract_id=$1)`, contractID)
}
