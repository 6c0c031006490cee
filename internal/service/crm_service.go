package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/config"
	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/events"
	"github.com/epicevents/crm/internal/repository"
	"github.com/epicevents/crm/internal/validate"
	apperrors "github.com/epicevents/crm/pkg/util"
)

// CRMService covers collaborators, clients, contracts and events.
type CRMService struct {
	collaborators repository.CollaboratorRepository
	clients       repository.ClientRepository
	contracts     repository.ContractRepository
	events        repository.EventRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	bcryptCost    int
}

// CRMDependencies encapsulates repo requirements for the CRM service.
type CRMDependencies struct {
	Collaborators repository.CollaboratorRepository
	Clients       repository.ClientRepository
	Contracts     repository.ContractRepository
	Events        repository.EventRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewCRMService builds the service.
func NewCRMService(cfg config.Config, deps CRMDependencies) *CRMService {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.Discard
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CRMService{
		collaborators: deps.Collaborators,
		clients:       deps.Clients,
		contracts:     deps.Contracts,
		events:        deps.Events,
		dispatcher:    dispatcher,
		logger:        logger,
		bcryptCost:    cfg.Auth.BcryptCost,
	}
}

// NewCollaborator is the input of AddCollaborator.
type NewCollaborator struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Phone      string `json:"phone" validate:"required,fr_phone"`
	Department string `json:"department" validate:"required,oneof=management sales support"`
}

// NewClient is the input of AddClient.
type NewClient struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,fr_phone"`
	Company   string `json:"company" validate:"required"`
}

// ListCollaborators returns every collaborator except superusers.
func (s *CRMService) ListCollaborators(ctx context.Context) ([]domain.Collaborator, error) {
	return s.collaborators.List(ctx)
}

// ListClients returns every client.
func (s *CRMService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

// ListContracts returns every contract.
func (s *CRMService) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	return s.contracts.List(ctx)
}

// ListEvents returns every event.
func (s *CRMService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

// AddCollaborator validates the input and registers a collaborator.
func (s *CRMService) AddCollaborator(ctx context.Context, actor *domain.Collaborator, in NewCollaborator) (*domain.Collaborator, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Department = strings.TrimSpace(in.Department)
	if err := checkInput(&in); err != nil {
		return nil, err
	}
	email, err := s.uniqueEmail(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	phone, err := s.uniquePhone(ctx, in.Phone, "")
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	c := &domain.Collaborator{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Department:   domain.Department(in.Department),
	}
	if err := s.collaborators.Create(ctx, c); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventCollaboratorCreated, actorOf(actor), events.CollaboratorCreatedPayload{
		ID:         c.ID,
		Name:       c.FullName(),
		Department: string(c.Department),
	}))
	return c, nil
}

// AddClient validates the input and registers a client followed by actor.
func (s *CRMService) AddClient(ctx context.Context, actor *domain.Collaborator, in NewClient) (*domain.Client, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	if err := checkInput(&in); err != nil {
		return nil, err
	}
	email, err := s.uniqueEmail(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	phone, err := s.uniquePhone(ctx, in.Phone, "")
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Phone:     phone,
		Company:   domain.Company{Name: in.Company},
	}
	if actor != nil {
		contactID := actor.ID
		client.ContactID = &contactID
		client.ContactName = actor.FullName()
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventClientCreated, actorOf(actor), events.ClientCreatedPayload{
		ID:      client.ID,
		Name:    client.FullName(),
		Company: client.Company.Name,
	}))
	return client, nil
}

// uniqueEmail validates the address and checks no collaborator or client uses
// it. The record's own current address is accepted.
func (s *CRMService) uniqueEmail(ctx context.Context, value, current string) (string, error) {
	email, err := field(validate.FieldEmail, value)
	if err != nil || email == current {
		return email, err
	}
	if inUse, err := taken(ctx, email, s.collaborators.ExistsByEmail, s.clients.ExistsByEmail); err != nil {
		return "", err
	} else if inUse {
		return "", apperrors.NewConflict("This email is already exists", map[string]any{"field": validate.FieldEmail})
	}
	return email, nil
}

func (s *CRMService) uniquePhone(ctx context.Context, value, current string) (string, error) {
	phone, err := field(validate.FieldPhone, value)
	if err != nil || phone == current {
		return phone, err
	}
	if inUse, err := taken(ctx, phone, s.collaborators.ExistsByPhone, s.clients.ExistsByPhone); err != nil {
		return "", err
	} else if inUse {
		return "", apperrors.NewConflict("This phone is already exists", map[string]any{"field": validate.FieldPhone})
	}
	return phone, nil
}

type existsFunc func(ctx context.Context, value string) (bool, error)

func taken(ctx context.Context, value string, checks ...existsFunc) (bool, error) {
	for _, check := range checks {
		found, err := check(ctx, value)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

func (s *CRMService) publish(ctx context.Context, e events.Event) {
	if err := s.dispatcher.Publish(ctx, e); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(e.Type)), zap.Error(err))
	}
}

func field(name, value string) (string, error) {
	out, err := validate.Validate(name, value)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error(), map[string]any{"field": name})
	}
	return out, nil
}

// checkInput runs the struct tags of in and reports the first failure.
func checkInput(in any) error {
	return invalidField(validate.Struct(in))
}

func required(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		label := strings.ReplaceAll(name, "_", " ")
		return "", apperrors.NewValidationError(strings.ToUpper(label[:1])+label[1:]+" is required.", map[string]any{"field": name})
	}
	return value, nil
}
