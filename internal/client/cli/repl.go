package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Profile(ctx context.Context) error
	ChangeName(ctx context.Context) error
	ChangeEmail(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
}

var (
	anonymousCommands     = map[string]bool{"register": true, "login": true, "forgot": true}
	authenticatedCommands = map[string]bool{
		"profile": true, "name": true, "email": true, "password": true, "delete": true, "logout": true,
	}
)

// runREPL starts a simple read–eval–print loop for the accountkeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - register       create an account and sign in
//	  - login          sign in
//	  - forgot         reset a forgotten password
//
//	Signed in:
//	  - profile        show name and email
//	  - name           change the full name
//	  - email          change the email
//	  - password       change the password
//	  - delete         delete the account
//	  - logout         sign out
//
//	Always:
//	  - help           show available commands
//	  - status         show session state
//	  - exit | quit    leave the program
//
// Commands of the other session state are refused. Errors returned by
// command handlers are ignored here; handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ak %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch {
		case anonymousCommands[cmd] && a.isLoggedIn():
			printlnFn("Already signed in, logout first")
			continue
		case authenticatedCommands[cmd] && !a.isLoggedIn():
			printlnFn(common.ErrNotAuthenticated.Error())
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, name, email, password, delete, logout, status, exit")
			} else {
				printlnFn("Available commands: register, login, forgot, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "name":
			_ = a.ChangeName(ctx)

		case "email":
			_ = a.ChangeEmail(ctx)

		case "password":
			_ = a.ChangePassword(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
