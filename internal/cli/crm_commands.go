package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/service"
	"github.com/epicevents/crm/internal/validate"
	apperrors "github.com/epicevents/crm/pkg/util"
)

func (a *App) crmCommands() []cli.Command {
	return []cli.Command{
		{
			Name:  "collaborator",
			Usage: "Manage collaborators",
			Subcommands: []cli.Command{
				{
					Name:         "view",
					Usage:        "View list of all collaborators",
					OnUsageError: a.usageError,
					Action:       a.authorized("view", "collaborator", a.viewCollaborators),
				},
				{
					Name:  "add",
					Usage: "Create a new collaborator",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "first-name", Usage: "Collaborator's first name"},
						cli.StringFlag{Name: "last-name", Usage: "Collaborator's last name"},
						cli.StringFlag{Name: "email", Usage: "Collaborator's email address"},
						cli.StringFlag{Name: "password", Usage: "Collaborator's password"},
						cli.StringFlag{Name: "phone", Usage: "Collaborator's phone number"},
						cli.StringFlag{Name: "department", Usage: "Collaborator's department"},
					},
					OnUsageError: a.usageError,
					Action:       a.authorized("add", "collaborator", a.addCollaborator),
				},
				{
					Name:      "change",
					Usage:     "Update a collaborator",
					ArgsUsage: "<full name>",
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "first-name, f", Usage: "Change first name"},
						cli.BoolFlag{Name: "last-name, l", Usage: "Change last name"},
						cli.BoolFlag{Name: "email, e", Usage: "Change email address"},
						cli.BoolFlag{Name: "password, x", Usage: "Change password"},
						cli.BoolFlag{Name: "phone, p", Usage: "Change phone number"},
						cli.BoolFlag{Name: "department, d", Usage: "Change department"},
						cli.BoolFlag{Name: "all", Usage: "Change all fields. It's same as -flexpd"},
					},
					UseShortOptionHandling: true,
					OnUsageError:           a.usageError,
					Action:                 a.authorized("change", "collaborator", a.changeCollaborator),
				},
				{
					Name:         "delete",
					Usage:        "Delete a collaborator",
					ArgsUsage:    "<full name>",
					OnUsageError: a.usageError,
					Action:       a.authorized("delete", "collaborator", a.deleteCollaborator),
				},
			},
		},
		{
			Name:  "client",
			Usage: "Manage clients",
			Subcommands: []cli.Command{
				{
					Name:         "view",
					Usage:        "View list of all clients",
					OnUsageError: a.usageError,
					Action:       a.authorized("view", "client", a.viewClients),
				},
				{
					Name:  "add",
					Usage: "Create a new client",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "first-name", Usage: "Client's first name"},
						cli.StringFlag{Name: "last-name", Usage: "Client's last name"},
						cli.StringFlag{Name: "email", Usage: "Client's email address"},
						cli.StringFlag{Name: "phone", Usage: "Client's phone number"},
						cli.StringFlag{Name: "company", Usage: "Client's company name"},
					},
					OnUsageError: a.usageError,
					Action:       a.authorized("add", "client", a.addClient),
				},
				{
					Name:      "change",
					Usage:     "Update a client",
					ArgsUsage: "<full name>",
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "first-name, f", Usage: "Change first name"},
						cli.BoolFlag{Name: "last-name, l", Usage: "Change last name"},
						cli.BoolFlag{Name: "email, e", Usage: "Change email address"},
						cli.BoolFlag{Name: "phone, p", Usage: "Change phone number"},
						cli.BoolFlag{Name: "company, y", Usage: "Change company"},
						cli.BoolFlag{Name: "contact, c", Usage: "Change contact"},
						cli.BoolFlag{Name: "all", Usage: "Change all fields. It's same as -flepyc"},
					},
					UseShortOptionHandling: true,
					OnUsageError:           a.usageError,
					Action:                 a.authorized("view", "client", a.changeClient),
				},
			},
		},
		{
			Name:  "contract",
			Usage: "Manage contracts",
			Subcommands: []cli.Command{
				{
					Name:         "view",
					Usage:        "View list of all contracts",
					OnUsageError: a.usageError,
					Action:       a.authorized("view", "contract", a.viewContracts),
				},
			},
		},
		{
			Name:  "event",
			Usage: "Manage events",
			Subcommands: []cli.Command{
				{
					Name:         "view",
					Aliases:      []string{"list"},
					Usage:        "View list of all events",
					OnUsageError: a.usageError,
					Action:       a.authorized("view", "event", a.viewEvents),
				},
				{
					Name:  "add",
					Usage: "Create the event of a signed contract",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "name", Usage: "Event name"},
						cli.StringFlag{Name: "contract", Usage: "Contract ID"},
						cli.StringFlag{Name: "start-date", Usage: "Start date (dd-mm-yyyy hh:mm)"},
						cli.StringFlag{Name: "end-date", Usage: "End date (dd-mm-yyyy hh:mm)"},
						cli.StringFlag{Name: "location", Usage: "Event location"},
						cli.StringFlag{Name: "attendees", Usage: "Expected number of attendees"},
						cli.StringFlag{Name: "note", Usage: "Free text note"},
					},
					OnUsageError: a.usageError,
					Action:       a.authorized("add", "event", a.addEvent),
				},
			},
		},
	}
}

func (a *App) viewCollaborators(c *cli.Context, _ *domain.Collaborator) error {
	list, err := a.cfg.CRM.ListCollaborators(contextOf(c))
	if err != nil {
		return err
	}
	return a.renderOrEmpty(collaboratorTable(list...), "No user found.")
}

func (a *App) addCollaborator(c *cli.Context, actor *domain.Collaborator) error {
	var (
		in  service.NewCollaborator
		err error
	)
	if in.FirstName, err = a.prompt.option(c.String("first-name"), "First name", ""); err != nil {
		return err
	}
	if in.LastName, err = a.prompt.option(c.String("last-name"), "Last name", ""); err != nil {
		return err
	}
	if in.Email, err = a.prompt.option(c.String("email"), "Email", validate.FieldEmail); err != nil {
		return err
	}
	if in.Password = c.String("password"); in.Password == "" {
		if in.Password, err = a.prompt.AskSecret("Password", true); err != nil {
			return err
		}
	}
	if in.Phone, err = a.prompt.option(c.String("phone"), "Phone", validate.FieldPhone); err != nil {
		return err
	}
	if in.Department, err = a.prompt.option(c.String("department"), "Department (management, sales, support)", validate.FieldDepartment); err != nil {
		return err
	}

	created, err := a.cfg.CRM.AddCollaborator(contextOf(c), actor, in)
	if err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Collaborator successfully created."))
	return collaboratorTable(*created).render(a.cfg.Out, a.color)
}

func (a *App) viewClients(c *cli.Context, _ *domain.Collaborator) error {
	list, err := a.cfg.CRM.ListClients(contextOf(c))
	if err != nil {
		return err
	}
	return a.renderOrEmpty(clientTable(list...), "No client found.")
}

func (a *App) addClient(c *cli.Context, actor *domain.Collaborator) error {
	var (
		in  service.NewClient
		err error
	)
	if in.FirstName, err = a.prompt.option(c.String("first-name"), "First name", ""); err != nil {
		return err
	}
	if in.LastName, err = a.prompt.option(c.String("last-name"), "Last name", ""); err != nil {
		return err
	}
	if in.Email, err = a.prompt.option(c.String("email"), "Email", validate.FieldEmail); err != nil {
		return err
	}
	if in.Phone, err = a.prompt.option(c.String("phone"), "Phone", validate.FieldPhone); err != nil {
		return err
	}
	if in.Company, err = a.prompt.option(c.String("company"), "Company", ""); err != nil {
		return err
	}

	created, err := a.cfg.CRM.AddClient(contextOf(c), actor, in)
	if err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Client successfully created."))
	return clientTable(*created).render(a.cfg.Out, a.color)
}

func (a *App) viewContracts(c *cli.Context, _ *domain.Collaborator) error {
	list, err := a.cfg.CRM.ListContracts(contextOf(c))
	if err != nil {
		return err
	}
	return a.renderOrEmpty(contractTable(list...), "No contract found.")
}

func (a *App) viewEvents(c *cli.Context, _ *domain.Collaborator) error {
	list, err := a.cfg.CRM.ListEvents(contextOf(c))
	if err != nil {
		return err
	}
	return a.renderOrEmpty(eventTable(list...), "No event found.")
}

func (a *App) changeCollaborator(c *cli.Context, actor *domain.Collaborator) error {
	name, err := fullNameArg(c, "COLLABORATOR")
	if err != nil {
		return err
	}
	ctx := contextOf(c)
	target, err := a.cfg.CRM.FindCollaborator(ctx, name)
	if err != nil {
		return err
	}

	all := c.Bool("all")
	var ch service.CollaboratorChanges
	if all || c.Bool("first-name") {
		if ch.FirstName, err = a.ask("First name", ""); err != nil {
			return err
		}
	}
	if all || c.Bool("last-name") {
		if ch.LastName, err = a.ask("Last name", ""); err != nil {
			return err
		}
	}
	if all || c.Bool("email") {
		if ch.Email, err = a.ask("Email", validate.FieldEmail); err != nil {
			return err
		}
	}
	if all || c.Bool("password") {
		secret, err := a.prompt.AskSecret("Password", true)
		if err != nil {
			return err
		}
		ch.Password = &secret
	}
	if all || c.Bool("phone") {
		if ch.Phone, err = a.ask("Phone", validate.FieldPhone); err != nil {
			return err
		}
	}
	if all || c.Bool("department") {
		if ch.Department, err = a.ask("Department (management, sales, support)", validate.FieldDepartment); err != nil {
			return err
		}
	}
	if ch == (service.CollaboratorChanges{}) {
		a.println(a.cfg.Out, a.color.Yellow("Collaborator has not changed. Specify options to change attributes."))
		return collaboratorTable(*target).render(a.cfg.Out, a.color)
	}

	updated, err := a.cfg.CRM.ChangeCollaborator(ctx, actor, name, ch)
	if err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Collaborator successfully updated."))
	return collaboratorTable(*updated).render(a.cfg.Out, a.color)
}

func (a *App) deleteCollaborator(c *cli.Context, actor *domain.Collaborator) error {
	name, err := fullNameArg(c, "COLLABORATOR")
	if err != nil {
		return err
	}
	deleted, err := a.cfg.CRM.DeleteCollaborator(contextOf(c), actor, name)
	if err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green(deleted.FullName()+" successfully deleted."))
	return nil
}

func (a *App) changeClient(c *cli.Context, actor *domain.Collaborator) error {
	name, err := fullNameArg(c, "CLIENT")
	if err != nil {
		return err
	}
	ctx := contextOf(c)
	target, err := a.cfg.CRM.FindClient(ctx, name)
	if err != nil {
		return err
	}
	if !auth.CanChangeClient(actor, target) {
		return apperrors.NewForbidden(service.MsgNotAllowed)
	}

	all := c.Bool("all")
	var ch service.ClientChanges
	if all || c.Bool("first-name") {
		if ch.FirstName, err = a.ask("First name", ""); err != nil {
			return err
		}
	}
	if all || c.Bool("last-name") {
		if ch.LastName, err = a.ask("Last name", ""); err != nil {
			return err
		}
	}
	if all || c.Bool("email") {
		if ch.Email, err = a.ask("Email", validate.FieldEmail); err != nil {
			return err
		}
	}
	if all || c.Bool("phone") {
		if ch.Phone, err = a.ask("Phone", validate.FieldPhone); err != nil {
			return err
		}
	}
	if all || c.Bool("company") {
		if ch.Company, err = a.ask("Company", ""); err != nil {
			return err
		}
	}
	if all || c.Bool("contact") {
		if ch.Contact, err = a.ask("Contact (full name of a sales collaborator)", ""); err != nil {
			return err
		}
	}
	if ch == (service.ClientChanges{}) {
		a.println(a.cfg.Out, a.color.Yellow("Client has not changed. Specify options to change attributes."))
		return clientTable(*target).render(a.cfg.Out, a.color)
	}

	updated, err := a.cfg.CRM.ChangeClient(ctx, actor, name, ch)
	if err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Client successfully updated."))
	return clientTable(*updated).render(a.cfg.Out, a.color)
}

func (a *App) addEvent(c *cli.Context, actor *domain.Collaborator) error {
	var (
		in  service.NewEvent
		err error
	)
	if in.Name, err = a.prompt.option(c.String("name"), "Name", ""); err != nil {
		return err
	}
	if in.ContractID, err = a.prompt.option(c.String("contract"), "Contract ID", ""); err != nil {
		return err
	}
	if in.StartDate, err = a.prompt.option(c.String("start-date"), "Start date", validate.FieldDate); err != nil {
		return err
	}
	if in.EndDate, err = a.prompt.option(c.String("end-date"), "End date", validate.FieldDate); err != nil {
		return err
	}
	if in.Location, err = a.prompt.option(c.String("location"), "Location", ""); err != nil {
		return err
	}
	attendees, err := a.prompt.option(c.String("attendees"), "Attendees", "")
	if err != nil {
		return err
	}
	if in.Attendees, err = strconv.Atoi(strings.TrimSpace(attendees)); err != nil {
		return apperrors.NewValidationError("Attendees must be a whole number.", map[string]any{"field": "attendees"})
	}
	in.Note = c.String("note")

	created, err := a.cfg.CRM.AddEvent(contextOf(c), actor, in)
	if err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Event successfully created."))
	return eventTable(*created).render(a.cfg.Out, a.color)
}

// ask prompts for one changed field, through its validator when field is set.
func (a *App) ask(label, field string) (*string, error) {
	value, err := a.prompt.option("", label, field)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// fullNameArg joins the positional arguments into a full name.
func fullNameArg(c *cli.Context, argument string) (string, error) {
	name := strings.TrimSpace(strings.Join(c.Args(), " "))
	if name == "" {
		return "", apperrors.NewValidationError(fmt.Sprintf("Missing argument '%s'.", argument), nil)
	}
	return name, nil
}

func (a *App) renderOrEmpty(t *table, empty string) error {
	if len(t.rows) == 0 {
		a.println(a.cfg.Out, a.color.Red(empty))
		return nil
	}
	return t.render(a.cfg.Out, a.color)
}
