// Package cli provides the interactive accountkeeper command-line client.
//
// It is the view layer over services.SessionManager: it subscribes to the
// session, prints "Signed in as <name>" / "Signed out" on every change and
// offers the register, login, forgot-password, profile and delete flows as
// REPL commands.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
