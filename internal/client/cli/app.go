package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"

	"github.com/dmitrijs2005/readlist/internal/client/client"
	"github.com/dmitrijs2005/readlist/internal/client/config"
	"github.com/dmitrijs2005/readlist/internal/client/repositories"
	"github.com/dmitrijs2005/readlist/internal/client/repositories/session"
	"github.com/dmitrijs2005/readlist/internal/client/services"
)

type App struct {
	config  *config.Config
	auth    services.AuthService
	library services.LibraryService
	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer
}

// NewApp opens the session database and the API connection described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := repositories.OpenDatabase(ctx, c.SessionFile)
	if err != nil {
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, apiClient, db, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, apiClient client.Client, db *sql.DB, in io.Reader, out io.Writer) *App {
	auth := services.NewAuthService(apiClient, session.NewSQLiteRepository(db))
	return &App{
		config:  c,
		auth:    auth,
		library: services.NewLibraryService(apiClient, auth),
		reader:  bufio.NewReader(in),
		out:     out,
		closers: []io.Closer{apiClient, db},
	}
}

// Run restores a saved login, then serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	if s, err := a.auth.Restore(ctx); err == nil {
		a.printf("Welcome back, %s\n", s.Email)
	} else if !errors.Is(err, services.ErrNotLoggedIn) {
		a.printf("could not restore session: %v\n", err)
	}

	a.printf("Type 'help' for commands.\n")
	runREPL(ctx, a, a.reader, a.out)

	return a.Close()
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.auth.Current() != nil
}

func (a *App) prompt() string {
	if s := a.auth.Current(); s != nil {
		return s.Email
	}
	return "(guest)"
}
