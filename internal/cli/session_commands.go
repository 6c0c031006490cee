package cli

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/service"
	"github.com/epicevents/crm/internal/validate"
	apperrors "github.com/epicevents/crm/pkg/util"
)

func (a *App) sessionCommands() []cli.Command {
	return []cli.Command{
		{
			Name:  "login",
			Usage: "Log in and keep a session token",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "email, e", Usage: "Your email address"},
				cli.StringFlag{Name: "password, p", Usage: "Your password"},
			},
			OnUsageError: a.usageError,
			Action:       a.withDatabase(a.login),
		},
		{
			Name:         "logout",
			Usage:        "Forget the session token",
			OnUsageError: a.usageError,
			Action:       a.withDatabase(a.logout),
		},
		{
			Name:         "whoami",
			Usage:        "Show the logged in collaborator",
			OnUsageError: a.usageError,
			Action:       a.withDatabase(a.whoami),
		},
		{
			Name:  "setsecretkey",
			Usage: "Set the key used to sign session tokens",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "key", Usage: "Set secret key"},
			},
			OnUsageError: a.usageError,
			Action:       a.setSecretKey,
		},
		{
			Name:  "createsuperuser",
			Usage: "Create a collaborator holding every permission",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "email", Usage: "Superuser email address"},
				cli.StringFlag{Name: "password", Usage: "Superuser password"},
			},
			OnUsageError: a.usageError,
			Action:       a.withDatabase(a.createSuperuser),
		},
		{
			Name:         "migrate",
			Usage:        "Apply the database schema",
			OnUsageError: a.usageError,
			Action:       a.withDatabase(a.migrate),
		},
	}
}

func (a *App) login(c *cli.Context) error {
	email, err := a.prompt.option(c.String("email"), "Email", validate.FieldEmail)
	if err != nil {
		return err
	}
	password := c.String("password")
	if password == "" {
		if password, err = a.prompt.AskSecret("Password", false); err != nil {
			return err
		}
	}

	if _, _, err := a.cfg.Auth.Login(contextOf(c), email, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("Wrong email or password.")
		}
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Successfully logged in"))
	return nil
}

func (a *App) logout(c *cli.Context) error {
	if err := a.cfg.Auth.Logout(contextOf(c)); err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Successfully logged out"))
	return nil
}

func (a *App) whoami(c *cli.Context) error {
	current, err := a.cfg.Auth.Current(contextOf(c))
	if err != nil {
		return err
	}
	if current == nil {
		return apperrors.NewUnauthorized(service.MsgLoginRequired)
	}
	role := string(current.Department)
	if current.IsSuperuser {
		role = "superuser"
	}
	a.println(a.cfg.Out, fmt.Sprintf("%s (%s)", current.DisplayName(), role))
	return nil
}

func (a *App) setSecretKey(c *cli.Context) error {
	key, err := a.prompt.option(c.String("key"), "Secret key", "")
	if err != nil {
		return err
	}
	if err := a.cfg.Store.SetSecretKey(contextOf(c), key); err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Secret key successfully added."))
	return nil
}

func (a *App) createSuperuser(c *cli.Context) error {
	email, err := a.prompt.option(c.String("email"), "Email", validate.FieldEmail)
	if err != nil {
		return err
	}
	password := c.String("password")
	if password == "" {
		if password, err = a.prompt.AskSecret("Password", true); err != nil {
			return err
		}
	}

	if _, err := a.cfg.Auth.CreateSuperuser(contextOf(c), email, password); err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green("Superuser created successfully."))
	return nil
}

func (a *App) migrate(c *cli.Context) error {
	if a.cfg.Migrate == nil {
		return apperrors.NewInternalError(errors.New("migrations are not wired"))
	}
	n, err := a.cfg.Migrate(contextOf(c))
	if err != nil {
		return err
	}
	a.println(a.cfg.Out, a.color.Green(fmt.Sprintf("Applied %d migrations.", n)))
	return nil
}
