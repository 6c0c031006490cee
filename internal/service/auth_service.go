package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/config"
	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/events"
	"github.com/epicevents/crm/internal/repository"
	"github.com/epicevents/crm/internal/session"
	"github.com/epicevents/crm/internal/validate"
	apperrors "github.com/epicevents/crm/pkg/util"
)

// Messages shown when a command cannot run for the current session.
const (
	MsgLoginRequired  = "Token has expired. Please log in again."
	MsgNotAllowed     = "You are not allowed."
	MsgInvalidSession = "Session token is invalid. Please log in again."
)

// AuthService coordinates login, logout and per-command authorization.
type AuthService struct {
	collaborators repository.CollaboratorRepository
	issuer        *session.Issuer
	resolver      *auth.Resolver
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	bcryptCost    int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Collaborators repository.CollaboratorRepository
	Store         session.Store
	Codec         *session.Codec
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.Discard
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		collaborators: deps.Collaborators,
		issuer:        session.NewIssuer(deps.Store, deps.Codec),
		resolver:      auth.NewResolver(deps.Store, deps.Codec, deps.Collaborators),
		dispatcher:    dispatcher,
		logger:        logger,
		bcryptCost:    cfg.Auth.BcryptCost,
	}
}

// Login checks credentials and makes sure a session token is stored for the
// collaborator. The boolean reports whether an existing session was kept.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Collaborator, bool, error) {
	c, err := s.collaborators.GetByEmail(ctx, validate.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, auth.ErrInvalidCredentials
		}
		return nil, false, err
	}
	if err := auth.ComparePassword(c.PasswordHash, password); err != nil {
		return nil, false, err
	}

	_, reused, err := s.issuer.IssueFor(ctx, c.ID, c.FullName())
	if err != nil {
		return nil, false, err
	}

	eventType := events.EventSessionIssued
	if reused {
		eventType = events.EventSessionReused
	}
	s.publish(ctx, events.New(eventType, actorOf(c), events.SessionPayload{
		UserID:  c.ID,
		Subject: c.FullName(),
	}))
	s.logger.Debug("session ready", zap.Int64("user_id", c.ID), zap.Bool("reused", reused))
	return c, reused, nil
}

// Logout removes the stored session token.
func (s *AuthService) Logout(ctx context.Context) error {
	current, err := s.resolver.Current(ctx)
	if err != nil && !errors.Is(err, session.ErrSignatureInvalid) && !errors.Is(err, session.ErrMalformedToken) {
		return err
	}
	if err := s.issuer.Revoke(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.EventSessionCleared, actorOf(current), nil))
	return nil
}

// Current returns the logged-in collaborator or nil.
func (s *AuthService) Current(ctx context.Context) (*domain.Collaborator, error) {
	return s.resolver.Current(ctx)
}

// Require returns the logged-in collaborator when they hold perm.
func (s *AuthService) Require(ctx context.Context, perm string) (*domain.Collaborator, error) {
	c, err := s.resolver.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrSignatureInvalid) || errors.Is(err, session.ErrMalformedToken) {
			de := apperrors.NewDomainError("UNAUTHORIZED", MsgInvalidSession, apperrors.ExitUnauthorized, nil)
			de.Err = err
			return nil, de
		}
		return nil, err
	}
	if c == nil {
		return nil, apperrors.NewUnauthorized(MsgLoginRequired)
	}
	if !auth.HasPerm(c, perm) {
		return nil, apperrors.NewForbidden(MsgNotAllowed)
	}
	return c, nil
}

// CreateSuperuser registers an administrator without name or department.
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password string) (*domain.Collaborator, error) {
	email, err := validate.Email(email)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": validate.FieldEmail})
	}
	if password == "" {
		return nil, apperrors.NewValidationError("SuperUser must have a password", map[string]any{"field": "password"})
	}
	inUse, err := s.collaborators.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperrors.NewConflict("This email is already exists", map[string]any{"field": validate.FieldEmail})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	c := &domain.Collaborator{Email: email, PasswordHash: hash, IsSuperuser: true}
	if err := s.collaborators.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *AuthService) publish(ctx context.Context, e events.Event) {
	if err := s.dispatcher.Publish(ctx, e); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(e.Type)), zap.Error(err))
	}
}

func actorOf(c *domain.Collaborator) *events.Actor {
	if c == nil {
		return nil
	}
	return &events.Actor{ID: c.ID, Name: c.DisplayName()}
}
