package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/config"
	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/events"
	"github.com/epicevents/crm/internal/repository/repofake"
	"github.com/epicevents/crm/internal/service"
	apperrors "github.com/epicevents/crm/pkg/util"
)

var (
	signedContract   = uuid.MustParse("3f1c2a5e-8d4b-4c7e-9a10-2b6f0e7d1c11")
	unsignedContract = uuid.MustParse("7a9e4b21-5c3d-4f8a-b6e2-0d1c9f8e7a22")
	otherContract    = uuid.MustParse("c2d8f6a4-1b7e-4e3c-8f5a-9d0b2c4e6f33")
)

var (
	johnID int64 = 1
	annaID int64 = 3
)

type crmFixture struct {
	collaborators *repofake.CollaboratorRepo
	clients       *repofake.ClientRepo
	events        *repofake.EventRepo
	created       []events.Event
	svc           *service.CRMService
}

func newCRMFixture(t *testing.T) *crmFixture {
	t.Helper()
	f := &crmFixture{
		collaborators: repofake.NewCollaboratorRepo(
			domain.Collaborator{ID: 1, FirstName: "john", LastName: "doe", Email: "john@epicevents.com", Phone: "+33612345678", Department: domain.DepartmentSales},
			domain.Collaborator{ID: 2, Email: "admin@epicevents.com", IsSuperuser: true},
			domain.Collaborator{ID: 3, FirstName: "anna", LastName: "marie", Email: "anna@epicevents.com", Phone: "+33611111111", Department: domain.DepartmentSales},
			domain.Collaborator{ID: 4, FirstName: "paul", LastName: "dupont", Email: "paul@epicevents.com", Phone: "+33622222222", Department: domain.DepartmentManagement},
		),
		clients: repofake.NewClientRepo(domain.Client{
			ID: 1, FirstName: "kevin", LastName: "casey", Email: "kevin@startup.io", Phone: "+33102030405",
			Company: domain.Company{ID: 1, Name: "Cool Startup LLC"}, ContactID: &johnID, ContactName: "john doe",
		}),
		events: &repofake.EventRepo{},
	}
	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		f.created = append(f.created, e)
		return nil
	}
	dispatcher.Subscribe(events.EventCollaboratorCreated, record)
	dispatcher.Subscribe(events.EventClientCreated, record)
	dispatcher.Subscribe(events.EventCollaboratorUpdated, record)
	dispatcher.Subscribe(events.EventCollaboratorDeleted, record)
	dispatcher.Subscribe(events.EventClientUpdated, record)
	dispatcher.Subscribe(events.EventEventCreated, record)

	contracts := &repofake.ContractRepo{Contracts: []domain.Contract{
		{ID: signedContract, ClientID: 1, ContactID: &johnID, Signed: true},
		{ID: unsignedContract, ClientID: 1, ContactID: &johnID},
		{ID: otherContract, ClientID: 2, ContactID: &annaID, Signed: true},
	}}

	f.svc = service.NewCRMService(config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}, service.CRMDependencies{
		Collaborators: f.collaborators,
		Clients:       f.clients,
		Contracts:     contracts,
		Events:        f.events,
		Dispatcher:    dispatcher,
	})
	return f
}

func TestCRMService_ListCollaboratorsHidesSuperusers(t *testing.T) {
	f := newCRMFixture(t)
	list, err := f.svc.ListCollaborators(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, c := range list {
		assert.False(t, c.IsSuperuser, c.Email)
	}
}

func TestCRMService_AddCollaborator(t *testing.T) {
	ctx := context.Background()
	f := newCRMFixture(t)
	actor := &domain.Collaborator{ID: 2, Email: "admin@epicevents.com", IsSuperuser: true}

	c, err := f.svc.AddCollaborator(ctx, actor, service.NewCollaborator{
		FirstName:  " Bill ",
		LastName:   "Boquet",
		Email:      "bill@EpicEvents.com",
		Password:   "s3cret",
		Phone:      "06 98 76 54 32",
		Department: "support",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bill", c.FirstName)
	assert.Equal(t, "bill@epicevents.com", c.Email)
	assert.Equal(t, "+33698765432", c.Phone)
	assert.Equal(t, domain.DepartmentSupport, c.Department)
	require.NoError(t, auth.ComparePassword(c.PasswordHash, "s3cret"))

	require.Len(t, f.created, 1)
	assert.Equal(t, events.EventCollaboratorCreated, f.created[0].Type)
	assert.Equal(t, "admin@epicevents.com", f.created[0].Actor.Name)
}

func TestCRMService_AddCollaboratorRejects(t *testing.T) {
	ctx := context.Background()
	valid := service.NewCollaborator{
		FirstName: "bill", LastName: "boquet", Email: "bill@epicevents.com",
		Password: "pw", Phone: "0698765432", Department: "support",
	}

	cases := []struct {
		name   string
		mutate func(*service.NewCollaborator)
		code   string
	}{
		{"missing first name", func(in *service.NewCollaborator) { in.FirstName = " " }, "VALIDATION_FAILED"},
		{"missing password", func(in *service.NewCollaborator) { in.Password = "" }, "VALIDATION_FAILED"},
		{"bad email", func(in *service.NewCollaborator) { in.Email = "bill" }, "VALIDATION_FAILED"},
		{"email used by collaborator", func(in *service.NewCollaborator) { in.Email = "john@epicevents.com" }, "CONFLICT"},
		{"email used by client", func(in *service.NewCollaborator) { in.Email = "kevin@startup.io" }, "CONFLICT"},
		{"phone used", func(in *service.NewCollaborator) { in.Phone = "06 12 34 56 78" }, "CONFLICT"},
		{"bad phone", func(in *service.NewCollaborator) { in.Phone = "555-1234" }, "VALIDATION_FAILED"},
		{"bad department", func(in *service.NewCollaborator) { in.Department = "finance" }, "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCRMFixture(t)
			in := valid
			tc.mutate(&in)
			_, err := f.svc.AddCollaborator(ctx, nil, in)
			require.Error(t, err)
			assert.Equal(t, tc.code, apperrors.ToDomainError(err).Code)
			assert.Empty(t, f.created)
		})
	}
}

func TestCRMService_AddClient(t *testing.T) {
	ctx := context.Background()
	f := newCRMFixture(t)
	sales := &domain.Collaborator{ID: 1, FirstName: "john", LastName: "doe", Department: domain.DepartmentSales}

	client, err := f.svc.AddClient(ctx, sales, service.NewClient{
		FirstName: "ada",
		LastName:  "byron",
		Email:     "ada@engines.co.uk",
		Phone:     "01 11 22 33 44",
		Company:   "Cool Startup LLC",
	})
	require.NoError(t, err)
	require.NotNil(t, client.ContactID)
	assert.Equal(t, int64(1), *client.ContactID)
	assert.Equal(t, "john doe", client.ContactName)
	assert.Equal(t, int64(1), client.Company.ID)
	assert.Equal(t, 1, f.clients.CompanyCount())

	list, err := f.svc.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.Len(t, f.created, 1)
	assert.Equal(t, "ada byron", f.created[0].Payload.(events.ClientCreatedPayload).Name)

	_, err = f.svc.AddClient(ctx, sales, service.NewClient{
		FirstName: "ada", LastName: "byron", Email: "ada2@engines.co.uk", Phone: "0111223344", Company: "Other",
	})
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	_, err = f.svc.AddClient(ctx, sales, service.NewClient{
		FirstName: "ada", LastName: "byron", Email: "ada3@engines.co.uk", Phone: "0111223355",
	})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func ptr(s string) *string { return &s }

func TestCRMService_ChangeCollaborator(t *testing.T) {
	ctx := context.Background()
	f := newCRMFixture(t)
	manager := &domain.Collaborator{ID: 4, FirstName: "paul", LastName: "dupont", Department: domain.DepartmentManagement}

	c, err := f.svc.ChangeCollaborator(ctx, manager, " anna marie ", service.CollaboratorChanges{
		LastName:   ptr("Martin"),
		Email:      ptr("Anna.Martin@EpicEvents.com"),
		Password:   ptr("n3w-pass"),
		Department: ptr("support"),
	})
	require.NoError(t, err)
	assert.Equal(t, "anna Martin", c.FullName())
	assert.Equal(t, "Anna.Martin@epicevents.com", c.Email)
	assert.Equal(t, "+33611111111", c.Phone)
	assert.Equal(t, domain.DepartmentSupport, c.Department)
	require.NoError(t, auth.ComparePassword(c.PasswordHash, "n3w-pass"))

	stored, err := f.collaborators.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "anna Martin", stored.FullName())

	require.Len(t, f.created, 1)
	assert.Equal(t, events.EventCollaboratorUpdated, f.created[0].Type)
	assert.Equal(t, []string{"last_name", "email", "password", "department"}, f.created[0].Payload.(events.ChangedPayload).Fields)
}

func TestCRMService_ChangeCollaboratorKeepsOwnValues(t *testing.T) {
	f := newCRMFixture(t)
	c, err := f.svc.ChangeCollaborator(context.Background(), nil, "john doe", service.CollaboratorChanges{
		Email: ptr("john@epicevents.com"),
		Phone: ptr("06 12 34 56 78"),
	})
	require.NoError(t, err)
	assert.Equal(t, "+33612345678", c.Phone)
}

func TestCRMService_ChangeCollaboratorRejects(t *testing.T) {
	cases := []struct {
		name     string
		fullName string
		changes  service.CollaboratorChanges
		code     string
	}{
		{"unknown collaborator", "nobody here", service.CollaboratorChanges{FirstName: ptr("x")}, "NOT_FOUND"},
		{"blank first name", "anna marie", service.CollaboratorChanges{FirstName: ptr("  ")}, "VALIDATION_FAILED"},
		{"email of another collaborator", "anna marie", service.CollaboratorChanges{Email: ptr("john@epicevents.com")}, "CONFLICT"},
		{"phone of a client", "anna marie", service.CollaboratorChanges{Phone: ptr("01 02 03 04 05")}, "CONFLICT"},
		{"bad department", "anna marie", service.CollaboratorChanges{Department: ptr("finance")}, "VALIDATION_FAILED"},
		{"empty password", "anna marie", service.CollaboratorChanges{Password: ptr("")}, "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCRMFixture(t)
			_, err := f.svc.ChangeCollaborator(context.Background(), nil, tc.fullName, tc.changes)
			require.Error(t, err)
			assert.Equal(t, tc.code, apperrors.ToDomainError(err).Code)
			assert.Empty(t, f.created)
		})
	}

	f := newCRMFixture(t)
	_, err := f.svc.ChangeCollaborator(context.Background(), nil, "nobody here", service.CollaboratorChanges{})
	assert.EqualError(t, err, "User not found.")
}

func TestCRMService_ChangeCollaboratorWithoutChanges(t *testing.T) {
	f := newCRMFixture(t)
	c, err := f.svc.ChangeCollaborator(context.Background(), nil, "john doe", service.CollaboratorChanges{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Empty(t, f.created)
}

func TestCRMService_DeleteCollaborator(t *testing.T) {
	ctx := context.Background()
	f := newCRMFixture(t)
	manager := &domain.Collaborator{ID: 4, FirstName: "paul", LastName: "dupont", Department: domain.DepartmentManagement}

	_, err := f.svc.DeleteCollaborator(ctx, manager, "paul dupont")
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	deleted, err := f.svc.DeleteCollaborator(ctx, manager, "anna marie")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted.ID)

	_, err = f.collaborators.GetByID(ctx, 3)
	require.Error(t, err)
	require.Len(t, f.created, 1)
	assert.Equal(t, events.EventCollaboratorDeleted, f.created[0].Type)

	_, err = f.svc.DeleteCollaborator(ctx, manager, "anna marie")
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCRMService_ChangeClient(t *testing.T) {
	ctx := context.Background()
	f := newCRMFixture(t)
	john := &domain.Collaborator{ID: 1, FirstName: "john", LastName: "doe", Department: domain.DepartmentSales}
	anna := &domain.Collaborator{ID: 3, FirstName: "anna", LastName: "marie", Department: domain.DepartmentSales}

	_, err := f.svc.ChangeClient(ctx, anna, "kevin casey", service.ClientChanges{Company: ptr("Other")})
	assert.EqualError(t, err, service.MsgNotAllowed)

	client, err := f.svc.ChangeClient(ctx, john, "kevin casey", service.ClientChanges{
		Email:   ptr("kevin@bigcorp.io"),
		Company: ptr("Big Corp"),
		Contact: ptr("anna marie"),
	})
	require.NoError(t, err)
	assert.Equal(t, "kevin@bigcorp.io", client.Email)
	assert.Equal(t, "Big Corp", client.Company.Name)
	assert.Equal(t, 2, f.clients.CompanyCount())
	require.NotNil(t, client.ContactID)
	assert.Equal(t, int64(3), *client.ContactID)
	assert.Equal(t, "anna marie", client.ContactName)

	require.Len(t, f.created, 1)
	assert.Equal(t, events.EventClientUpdated, f.created[0].Type)

	// The previous contact lost the client with the handover.
	_, err = f.svc.ChangeClient(ctx, john, "kevin casey", service.ClientChanges{FirstName: ptr("kev")})
	assert.EqualError(t, err, service.MsgNotAllowed)

	client, err = f.svc.ChangeClient(ctx, anna, "kevin casey", service.ClientChanges{FirstName: ptr("kev")})
	require.NoError(t, err)
	assert.Equal(t, "kev casey", client.FullName())
}

func TestCRMService_ChangeClientRejects(t *testing.T) {
	john := &domain.Collaborator{ID: 1, FirstName: "john", LastName: "doe", Department: domain.DepartmentSales}
	admin := &domain.Collaborator{ID: 2, Email: "admin@epicevents.com", IsSuperuser: true}

	cases := []struct {
		name    string
		actor   *domain.Collaborator
		client  string
		changes service.ClientChanges
		code    string
		message string
	}{
		{"unknown client", john, "ada byron", service.ClientChanges{}, "NOT_FOUND", "Client not found."},
		{"contact outside sales", john, "kevin casey", service.ClientChanges{Contact: ptr("paul dupont")}, "VALIDATION_FAILED", "Contact not found"},
		{"unknown contact", admin, "kevin casey", service.ClientChanges{Contact: ptr("nobody")}, "VALIDATION_FAILED", "Contact not found"},
		{"phone of a collaborator", john, "kevin casey", service.ClientChanges{Phone: ptr("0611111111")}, "CONFLICT", "This phone is already exists"},
		{"blank company", john, "kevin casey", service.ClientChanges{Company: ptr("")}, "VALIDATION_FAILED", "Company is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCRMFixture(t)
			_, err := f.svc.ChangeClient(context.Background(), tc.actor, tc.client, tc.changes)
			require.Error(t, err)
			assert.Equal(t, tc.code, apperrors.ToDomainError(err).Code)
			assert.EqualError(t, err, tc.message)
			assert.Empty(t, f.created)
		})
	}
}

func TestCRMService_AddEvent(t *testing.T) {
	ctx := context.Background()
	f := newCRMFixture(t)
	john := &domain.Collaborator{ID: 1, FirstName: "john", LastName: "doe", Department: domain.DepartmentSales}

	e, err := f.svc.AddEvent(ctx, john, service.NewEvent{
		Name:       " Product launch ",
		ContractID: signedContract.String(),
		StartDate:  "24-12-2099 18:00",
		EndDate:    "25122099 02",
		Location:   "53 rue du Château, 41120 Candé-sur-Beuvron",
		Attendees:  75,
		Note:       "Wedding-style cocktail",
	})
	require.NoError(t, err)
	assert.Equal(t, "Product launch", e.Name)
	assert.Equal(t, signedContract, e.ContractID)
	assert.Equal(t, 2, e.EndDate.Hour())
	assert.Len(t, f.events.Events, 1)

	require.Len(t, f.created, 1)
	assert.Equal(t, signedContract.String(), f.created[0].Payload.(events.EventCreatedPayload).ContractID)

	_, err = f.svc.AddEvent(ctx, john, service.NewEvent{
		Name: "Again", ContractID: signedContract.String(), StartDate: "24-12-2099 18:00", EndDate: "24-12-2099 20:00", Location: "Paris",
	})
	assert.EqualError(t, err, "Event with this Contract already exists.")
}

func TestCRMService_AddEventRejects(t *testing.T) {
	john := &domain.Collaborator{ID: 1, FirstName: "john", LastName: "doe", Department: domain.DepartmentSales}
	valid := service.NewEvent{
		Name: "Gala", ContractID: signedContract.String(), StartDate: "01-06-2099 20:00", EndDate: "02-06-2099 01:00", Location: "Lyon", Attendees: 120,
	}

	cases := []struct {
		name    string
		mutate  func(*service.NewEvent)
		code    string
		message string
	}{
		{"missing name", func(in *service.NewEvent) { in.Name = "" }, "VALIDATION_FAILED", "Name is required."},
		{"bad contract id", func(in *service.NewEvent) { in.ContractID = "42" }, "VALIDATION_FAILED", "42 is not a valid contract ID"},
		{"unknown contract", func(in *service.NewEvent) { in.ContractID = uuid.NewString() }, "NOT_FOUND", "Contract not found."},
		{"contract of another contact", func(in *service.NewEvent) { in.ContractID = otherContract.String() }, "FORBIDDEN", "You are not the contact of this client's contract"},
		{"unsigned contract", func(in *service.NewEvent) { in.ContractID = unsignedContract.String() }, "VALIDATION_FAILED", "This contract has not yet been signed"},
		{"start in the past", func(in *service.NewEvent) { in.StartDate = "01-01-2000 10:00" }, "VALIDATION_FAILED", "Start date cannot be in the past"},
		{"end before start", func(in *service.NewEvent) { in.EndDate = "01-06-2099 19:00" }, "VALIDATION_FAILED", "End date cannot be earlier than start date"},
		{"negative attendees", func(in *service.NewEvent) { in.Attendees = -1 }, "VALIDATION_FAILED", "Attendees is not valid."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCRMFixture(t)
			in := valid
			tc.mutate(&in)
			_, err := f.svc.AddEvent(context.Background(), john, in)
			require.Error(t, err)
			assert.Equal(t, tc.code, apperrors.ToDomainError(err).Code)
			assert.EqualError(t, err, tc.message)
			assert.Empty(t, f.events.Events)
		})
	}

	f := newCRMFixture(t)
	in := valid
	in.StartDate = "2099-06-01"
	_, err := f.svc.AddEvent(context.Background(), john, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match the format")
}
