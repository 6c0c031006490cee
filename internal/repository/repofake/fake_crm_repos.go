package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/repository"
)

type ClientRepo struct {
	mu        sync.Mutex
	clients   []domain.Client
	companies map[string]int64
}

var _ repository.ClientRepository = (*ClientRepo)(nil)

func NewClientRepo(seed ...domain.Client) *ClientRepo {
	r := &ClientRepo{companies: make(map[string]int64)}
	for _, c := range seed {
		r.companies[c.Company.Name] = c.Company.ID
		r.clients = append(r.clients, c)
	}
	return r
}

func (r *ClientRepo) company(name string) int64 {
	id, ok := r.companies[name]
	if !ok {
		id = int64(len(r.companies) + 1)
		r.companies[name] = id
	}
	return id
}

func (r *ClientRepo) Create(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	client.Company.ID = r.company(client.Company.Name)
	client.ID = int64(len(r.clients) + 1)
	client.Created, client.Updated = now, now
	r.clients = append(r.clients, *client)
	return nil
}

func (r *ClientRepo) GetByFullName(_ context.Context, fullName string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.FullName() == fullName {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ClientRepo) List(_ context.Context) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Client(nil), r.clients...), nil
}

func (r *ClientRepo) Update(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].ID == client.ID {
			client.Company.ID = r.company(client.Company.Name)
			client.Updated = time.Now()
			r.clients[i] = *client
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *ClientRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *ClientRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *ClientRepo) CompanyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.companies)
}

type ContractRepo struct {
	Contracts []domain.Contract
}

var _ repository.ContractRepository = (*ContractRepo)(nil)

func (r *ContractRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Contract, error) {
	for _, c := range r.Contracts {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ContractRepo) List(_ context.Context) ([]domain.Contract, error) {
	return r.Contracts, nil
}

type EventRepo struct {
	mu     sync.Mutex
	Events []domain.Event
}

var _ repository.EventRepository = (*EventRepo)(nil)

func (r *EventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	event.ID = int64(len(r.Events) + 1)
	event.Created, event.Updated = now, now
	r.Events = append(r.Events, *event)
	return nil
}

func (r *EventRepo) List(_ context.Context) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.Events...), nil
}

func (r *EventRepo) ExistsForContract(_ context.Context, contractID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Events {
		if e.ContractID == contractID {
			return true, nil
		}
	}
	return false, nil
}
