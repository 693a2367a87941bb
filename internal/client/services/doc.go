// Package services contains the application services of the accountkeeper
// client.
//
// # Session lifecycle
//
// SessionManager owns the current session and is the single source of truth
// the view layer observes:
//
//	Uninitialized --Init--> Anonymous | Authenticated
//	Anonymous     --Register/Login--> Authenticated
//	Authenticated --UpdateProfile--> Authenticated
//	Authenticated --Logout/DeleteAccount--> Anonymous
//
// Every operation takes a context and returns a settled (value, error) pair,
// so the store underneath may become remote without callers changing. The
// password reset flow (BeginPasswordReset, PasswordReset.Complete) sits next
// to the state machine: it rewrites stored credentials without touching the
// session.
//
// # Observing state
//
// Subscribe registers a callback run after every session change; Watch adapts
// it to a channel that always holds the latest State.
package services
