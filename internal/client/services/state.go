package services

import "github.com/dmitrijs2005/accountkeeper/internal/client/repositories/accounts"

// Status is the state machine position derived from a State.
type Status int

const (
	StatusUninitialized Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// State is the observable session. CurrentUser is a copy owned by whoever
// received the State.
type State struct {
	CurrentUser *accounts.Account
	Initialized bool
}

func (s State) Status() Status {
	switch {
	case !s.Initialized:
		return StatusUninitialized
	case s.CurrentUser == nil:
		return StatusAnonymous
	default:
		return StatusAuthenticated
	}
}

func (s State) clone() State {
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		s.CurrentUser = &u
	}
	return s
}
