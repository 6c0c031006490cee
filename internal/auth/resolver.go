package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/repository"
	"github.com/epicevents/crm/internal/session"
)

// Resolver turns the stored session into the collaborator running the command.
type Resolver struct {
	store         session.Store
	codec         *session.Codec
	collaborators repository.CollaboratorRepository
}

// NewResolver constructs a resolver.
func NewResolver(store session.Store, codec *session.Codec, collaborators repository.CollaboratorRepository) *Resolver {
	return &Resolver{store: store, codec: codec, collaborators: collaborators}
}

// Current returns the logged-in collaborator, or nil when nobody is logged
// in, the session expired, or the collaborator no longer matches the token.
// Tampered or unreadable tokens are returned as errors.
func (r *Resolver) Current(ctx context.Context) (*domain.Collaborator, error) {
	reader, err := session.Open(ctx, r.store, r.codec)
	if errors.Is(err, session.ErrTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	payload, err := reader.Decode()
	if errors.Is(err, session.ErrTokenExpired) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c, err := r.collaborators.GetByID(ctx, payload.UserID)
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	if payload.Subject == "" {
		if !c.IsSuperuser {
			return nil, nil
		}
		return c, nil
	}
	// A rename since login invalidates the session.
	if c.FullName() != payload.Subject {
		return nil, nil
	}
	return c, nil
}

func notFoundAsNil(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
