package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/events"
	"github.com/epicevents/crm/internal/validate"
	apperrors "github.com/epicevents/crm/pkg/util"
)

// CollaboratorChanges lists the fields to overwrite; nil fields are kept.
type CollaboratorChanges struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	Phone      *string
	Department *string
}

// ClientChanges lists the fields to overwrite; nil fields are kept. Contact
// is the full name of the sales collaborator taking over the client.
type ClientChanges struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Company   *string
	Contact   *string
}

// FindCollaborator looks a collaborator up by full name.
func (s *CRMService) FindCollaborator(ctx context.Context, fullName string) (*domain.Collaborator, error) {
	c, err := s.collaborators.GetByFullName(ctx, strings.TrimSpace(fullName))
	if err != nil {
		return nil, notFound(err, "User")
	}
	return c, nil
}

// FindClient looks a client up by full name.
func (s *CRMService) FindClient(ctx context.Context, fullName string) (*domain.Client, error) {
	client, err := s.clients.GetByFullName(ctx, strings.TrimSpace(fullName))
	if err != nil {
		return nil, notFound(err, "Client")
	}
	return client, nil
}

// ChangeCollaborator applies ch to the collaborator named fullName. Every
// present field goes through the same checks as AddCollaborator.
func (s *CRMService) ChangeCollaborator(ctx context.Context, actor *domain.Collaborator, fullName string, ch CollaboratorChanges) (*domain.Collaborator, error) {
	c, err := s.FindCollaborator(ctx, fullName)
	if err != nil {
		return nil, err
	}

	var changed []string
	if ch.FirstName != nil {
		if c.FirstName, err = required("first_name", *ch.FirstName); err != nil {
			return nil, err
		}
		changed = append(changed, "first_name")
	}
	if ch.LastName != nil {
		if c.LastName, err = required("last_name", *ch.LastName); err != nil {
			return nil, err
		}
		changed = append(changed, "last_name")
	}
	if ch.Email != nil {
		if c.Email, err = s.uniqueEmail(ctx, *ch.Email, c.Email); err != nil {
			return nil, err
		}
		changed = append(changed, validate.FieldEmail)
	}
	if ch.Password != nil {
		if *ch.Password == "" {
			return nil, apperrors.NewValidationError("Password is required.", map[string]any{"field": "password"})
		}
		if c.PasswordHash, err = auth.HashPassword(*ch.Password, s.bcryptCost); err != nil {
			return nil, err
		}
		changed = append(changed, "password")
	}
	if ch.Phone != nil {
		if c.Phone, err = s.uniquePhone(ctx, *ch.Phone, c.Phone); err != nil {
			return nil, err
		}
		changed = append(changed, validate.FieldPhone)
	}
	if ch.Department != nil {
		department, err := field(validate.FieldDepartment, *ch.Department)
		if err != nil {
			return nil, err
		}
		c.Department = domain.Department(department)
		changed = append(changed, validate.FieldDepartment)
	}
	if len(changed) == 0 {
		return c, nil
	}

	if err := s.collaborators.Update(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventCollaboratorUpdated, actorOf(actor), events.ChangedPayload{
		ID:     c.ID,
		Name:   c.FullName(),
		Fields: changed,
	}))
	return c, nil
}

// DeleteCollaborator removes the collaborator named fullName. Collaborators
// cannot delete themselves.
func (s *CRMService) DeleteCollaborator(ctx context.Context, actor *domain.Collaborator, fullName string) (*domain.Collaborator, error) {
	c, err := s.FindCollaborator(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.ID == c.ID {
		return nil, apperrors.NewForbidden("You cannot delete yourself.")
	}
	if err := s.collaborators.Delete(ctx, c.ID); err != nil {
		return nil, notFound(err, "User")
	}
	s.publish(ctx, events.New(events.EventCollaboratorDeleted, actorOf(actor), events.CollaboratorDeletedPayload{
		ID:   c.ID,
		Name: c.FullName(),
	}))
	return c, nil
}

// ChangeClient applies ch to the client named fullName. Only the client's
// contact and holders of change_client may edit it; a new contact must be a
// sales collaborator.
func (s *CRMService) ChangeClient(ctx context.Context, actor *domain.Collaborator, fullName string, ch ClientChanges) (*domain.Client, error) {
	client, err := s.FindClient(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if !auth.CanChangeClient(actor, client) {
		return nil, apperrors.NewForbidden(MsgNotAllowed)
	}

	var changed []string
	if ch.FirstName != nil {
		if client.FirstName, err = required("first_name", *ch.FirstName); err != nil {
			return nil, err
		}
		changed = append(changed, "first_name")
	}
	if ch.LastName != nil {
		if client.LastName, err = required("last_name", *ch.LastName); err != nil {
			return nil, err
		}
		changed = append(changed, "last_name")
	}
	if ch.Email != nil {
		if client.Email, err = s.uniqueEmail(ctx, *ch.Email, client.Email); err != nil {
			return nil, err
		}
		changed = append(changed, validate.FieldEmail)
	}
	if ch.Phone != nil {
		if client.Phone, err = s.uniquePhone(ctx, *ch.Phone, client.Phone); err != nil {
			return nil, err
		}
		changed = append(changed, validate.FieldPhone)
	}
	if ch.Company != nil {
		name, err := required("company", *ch.Company)
		if err != nil {
			return nil, err
		}
		client.Company = domain.Company{Name: name}
		changed = append(changed, "company")
	}
	if ch.Contact != nil {
		contact, err := s.salesContact(ctx, *ch.Contact)
		if err != nil {
			return nil, err
		}
		contactID := contact.ID
		client.ContactID = &contactID
		client.ContactName = contact.FullName()
		changed = append(changed, "contact")
	}
	if len(changed) == 0 {
		return client, nil
	}

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventClientUpdated, actorOf(actor), events.ChangedPayload{
		ID:     client.ID,
		Name:   client.FullName(),
		Fields: changed,
	}))
	return client, nil
}

func (s *CRMService) salesContact(ctx context.Context, fullName string) (*domain.Collaborator, error) {
	c, err := s.collaborators.GetByFullName(ctx, strings.TrimSpace(fullName))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if c == nil || c.Department != domain.DepartmentSales {
		return nil, apperrors.NewValidationError("Contact not found", map[string]any{"field": "contact"})
	}
	return c, nil
}

// notFound turns a missing row into a NOT_FOUND error naming resource.
func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
