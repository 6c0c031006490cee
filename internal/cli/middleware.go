package cli

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/epicevents/crm/internal/auth"
	"github.com/epicevents/crm/internal/domain"
	apperrors "github.com/epicevents/crm/pkg/util"
)

type actorAction func(c *cli.Context, actor *domain.Collaborator) error

// guard turns a panic inside a command into an internal error.
func (a *App) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = apperrors.NewInternalError(nil)
		}
	}()
	return fn()
}

// report prints err in red and maps it to an exit code.
func (a *App) report(err error) int {
	if err == nil {
		return 0
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code == "INTERNAL_ERROR" {
		a.logger.Error("command failed", zap.Error(domainErr))
	}
	a.println(a.cfg.Err, a.color.Red(domainErr.Message))
	return domainErr.ExitCode
}

// withDatabase fails fast when a command needs Postgres and none is configured.
func (a *App) withDatabase(action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if a.cfg.Database != nil {
			if err := a.cfg.Database(); err != nil {
				de := apperrors.NewDomainError("NO_DATABASE", "Database is not configured. Set POSTGRES_DSN.", apperrors.ExitInternal, nil)
				de.Err = err
				return de
			}
		}
		return action(c)
	}
}

// authorized resolves the current collaborator and checks the
// <action>_<model> permission before running the command.
func (a *App) authorized(action, model string, next actorAction) cli.ActionFunc {
	perm := auth.Codename(action, model)
	return a.withDatabase(func(c *cli.Context) error {
		actor, err := a.cfg.Auth.Require(contextOf(c), perm)
		if err != nil {
			return err
		}
		a.logger.Debug("permission granted", zap.String("perm", perm), zap.Int64("user_id", actor.ID))
		return next(c, actor)
	})
}

func (a *App) usageError(_ *cli.Context, err error, _ bool) error {
	return apperrors.NewValidationError(err.Error(), nil)
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

func (a *App) println(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}
