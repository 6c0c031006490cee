package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/events"
	"github.com/epicevents/crm/internal/validate"
	apperrors "github.com/epicevents/crm/pkg/util"
)

// NewEvent is the input of AddEvent. Dates use any of validate.DateLayouts.
type NewEvent struct {
	Name       string `json:"name" validate:"required"`
	ContractID string `json:"contract" validate:"required"`
	StartDate  string `json:"start_date" validate:"required,crm_date"`
	EndDate    string `json:"end_date" validate:"required,crm_date"`
	Location   string `json:"location" validate:"required"`
	Attendees  int    `json:"attendees" validate:"gte=0"`
	Note       string `json:"note"`
}

// AddEvent schedules the event of a signed contract. Only the sales contact
// of the contract's client may do so, once per contract.
func (s *CRMService) AddEvent(ctx context.Context, actor *domain.Collaborator, in NewEvent) (*domain.Event, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ContractID = strings.TrimSpace(in.ContractID)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Location = strings.TrimSpace(in.Location)
	in.Note = strings.TrimSpace(in.Note)
	if err := checkInput(&in); err != nil {
		return nil, err
	}

	contract, err := s.signedContract(ctx, actor, in.ContractID)
	if err != nil {
		return nil, err
	}
	start, end, err := eventDates(time.Now(), in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	e := &domain.Event{
		Name:       in.Name,
		StartDate:  start,
		EndDate:    end,
		Location:   in.Location,
		Attendees:  in.Attendees,
		ContractID: contract.ID,
		Note:       in.Note,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventEventCreated, actorOf(actor), events.EventCreatedPayload{
		ID:         e.ID,
		Name:       e.Name,
		ContractID: contract.ID.String(),
	}))
	return e, nil
}

// signedContract loads the contract an event may be attached to.
func (s *CRMService) signedContract(ctx context.Context, actor *domain.Collaborator, value string) (*domain.Contract, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperrors.NewValidationError(value+" is not a valid contract ID", map[string]any{"field": "contract"})
	}
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Contract")
	}
	if actor == nil || contract.ContactID == nil || *contract.ContactID != actor.ID {
		return nil, apperrors.NewForbidden("You are not the contact of this client's contract")
	}
	if !contract.Signed {
		return nil, apperrors.NewValidationError("This contract has not yet been signed", map[string]any{"field": "contract"})
	}
	exists, err := s.events.ExistsForContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("Event with this Contract already exists.", map[string]any{"field": "contract"})
	}
	return contract, nil
}

func eventDates(now time.Time, startValue, endValue string) (time.Time, time.Time, error) {
	start, err := validate.ParseDate(startValue)
	if err != nil {
		return time.Time{}, time.Time{}, invalidField(err)
	}
	end, err := validate.ParseDate(endValue)
	if err != nil {
		return time.Time{}, time.Time{}, invalidField(err)
	}
	if err := validate.ValidateStartDate(now, start); err != nil {
		return time.Time{}, time.Time{}, invalidField(err)
	}
	if err := validate.ValidateEndDate(start, end); err != nil {
		return time.Time{}, time.Time{}, invalidField(err)
	}
	return start, end, nil
}

func invalidField(err error) error {
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		return apperrors.NewValidationError(verr.Message, map[string]any{"field": verr.Field})
	}
	return err
}
