package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/color"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/epicevents/crm/internal/service"
	"github.com/epicevents/crm/internal/session"
)

// Config bundles dependencies for command registration.
type Config struct {
	Name    string
	Version string

	Auth  *service.AuthService
	CRM   *service.CRMService
	Store session.Store

	// Database reports whether Postgres is reachable; nil means it is.
	Database func() error
	Migrate  func(ctx context.Context) (int, error)

	Logger *zap.Logger
	Color  *color.Color
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
}

// App is the epicevents command line.
type App struct {
	cfg    Config
	app    *cli.App
	prompt *Prompter
	color  *color.Color
	logger *zap.Logger
}

// New wires every command onto a urfave/cli application.
func New(cfg Config) *App {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Color == nil {
		cfg.Color = color.New()
	}
	if cfg.Name == "" {
		cfg.Name = "epicevents"
	}

	a := &App{
		cfg:    cfg,
		prompt: NewPrompter(cfg.In, cfg.Out, cfg.Color),
		color:  cfg.Color,
		logger: cfg.Logger,
	}

	app := cli.NewApp()
	app.Name = cfg.Name
	app.Usage = "Epic Events CRM"
	app.Version = cfg.Version
	app.Writer = cfg.Out
	app.ErrWriter = cfg.Err
	app.OnUsageError = a.usageError
	app.CommandNotFound = func(c *cli.Context, command string) {
		a.println(cfg.Err, a.color.Red(fmt.Sprintf("No such command %q.", command)))
	}
	app.Commands = append(a.sessionCommands(), a.crmCommands()...)
	a.app = app
	return a
}

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	err := a.guard(func() error {
		return a.app.RunContext(ctx, args)
	})
	return a.report(err)
}
