package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/client/config"
	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/client/services"
	"github.com/dmitrijs2005/accountkeeper/internal/client/validation"
	"golang.org/x/term"
)

// SessionService is the part of services.SessionManager the CLI drives.
type SessionService interface {
	Init(ctx context.Context) error
	State() services.State
	Users() []accounts.Account
	Subscribe(fn func(services.State)) (unsubscribe func())
	Register(ctx context.Context, in services.RegisterInput) (*accounts.Account, error)
	Login(ctx context.Context, c services.Credentials) (*accounts.Account, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, patch accounts.Patch) (*accounts.Account, error)
	DeleteAccount(ctx context.Context) error
	BeginPasswordReset(ctx context.Context, email string) (*services.PasswordReset, error)
}

type App struct {
	config  *config.Config
	session SessionService
	reader  *bufio.Reader
	out     io.Writer

	// terminal is true when passwords can be read without echo.
	terminal   bool
	lastStatus services.Status
}

// NewApp builds the CLI over session, reading commands from in and writing to
// out. Passwords are read without echo only when in is an interactive stdin.
func NewApp(c *config.Config, session SessionService, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		session:  session,
		reader:   bufio.NewReader(in),
		out:      out,
		terminal: in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Run restores the session and serves commands until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to AccountKeeper CLI (type 'help' for commands)")

	unsubscribe := a.session.Subscribe(a.onSessionChange)
	defer unsubscribe()

	err := a.call(ctx, a.session.Init)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Status() == services.StatusAuthenticated
}

func (a *App) getStatus() string {
	st := a.session.State()
	if st.CurrentUser != nil {
		return fmt.Sprintf("(%s)", st.CurrentUser.Name)
	}
	return fmt.Sprintf("(%s)", st.Status())
}

// onSessionChange prints a line when a user signs in or out.
func (a *App) onSessionChange(s services.State) {
	status, prev := s.Status(), a.lastStatus
	a.lastStatus = status

	switch {
	case status == prev:
	case status == services.StatusAuthenticated:
		fmt.Fprintf(a.out, "Signed in as %s\n", s.CurrentUser.Name)
	case prev == services.StatusAuthenticated:
		fmt.Fprintln(a.out, "Signed out")
	}
}

// call runs fn under the configured operation timeout.
func (a *App) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.OperationTimeout)
	defer cancel()
	return fn(ctx)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// report prints err the way the user should see it: one line per failing
// field for validation errors, the message otherwise.
func (a *App) report(err error) {
	var errs validation.ValidationErrors
	var verr *validation.ValidationError

	switch {
	case errors.As(err, &errs):
		for _, e := range errs {
			fmt.Fprintf(a.out, "  %s\n", e.Message)
		}
	case errors.As(err, &verr):
		fmt.Fprintf(a.out, "  %s\n", verr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(a.out, "Error: operation timed out")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
