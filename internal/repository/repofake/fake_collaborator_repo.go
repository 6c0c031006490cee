package repofake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/repository"
)

// CollaboratorRepo is an in-memory repository.CollaboratorRepository.
type CollaboratorRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Collaborator
	// Err, when set, is returned by every read.
	Err error
}

var _ repository.CollaboratorRepository = (*CollaboratorRepo)(nil)

// NewCollaboratorRepo seeds the fake with the given collaborators.
func NewCollaboratorRepo(seed ...domain.Collaborator) *CollaboratorRepo {
	r := &CollaboratorRepo{byID: make(map[int64]domain.Collaborator)}
	for _, c := range seed {
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
		r.byID[c.ID] = c
	}
	return r
}

func (r *CollaboratorRepo) Create(_ context.Context, c *domain.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now()
	c.ID = r.nextID
	c.Created, c.Updated = now, now
	r.byID[c.ID] = *c
	return nil
}

func (r *CollaboratorRepo) Update(_ context.Context, c *domain.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	c.Updated = time.Now()
	r.byID[c.ID] = *c
	return nil
}

// Delete drops a collaborator, simulating removal after a token was issued.
func (r *CollaboratorRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *CollaboratorRepo) GetByID(_ context.Context, id int64) (*domain.Collaborator, error) {
	return r.find(func(c domain.Collaborator) bool { return c.ID == id })
}

func (r *CollaboratorRepo) GetByEmail(_ context.Context, email string) (*domain.Collaborator, error) {
	return r.find(func(c domain.Collaborator) bool { return c.Email == email })
}

func (r *CollaboratorRepo) GetByFullName(_ context.Context, fullName string) (*domain.Collaborator, error) {
	return r.find(func(c domain.Collaborator) bool { return c.FullName() == fullName })
}

func (r *CollaboratorRepo) List(_ context.Context) ([]domain.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var result []domain.Collaborator
	for _, c := range r.byID {
		if !c.IsSuperuser {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *CollaboratorRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(func(c domain.Collaborator) bool { return c.Email == email })
}

func (r *CollaboratorRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(func(c domain.Collaborator) bool { return c.Phone == phone })
}

func (r *CollaboratorRepo) find(match func(domain.Collaborator) bool) (*domain.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if c := r.byID[id]; match(c) {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *CollaboratorRepo) exists(match func(domain.Collaborator) bool) (bool, error) {
	_, err := r.find(match)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
