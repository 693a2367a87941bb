package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/client/validation"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// PasswordReset is a started "forgot password" flow for one account.
type PasswordReset struct {
	m     *SessionManager
	email string

	mu   sync.Mutex
	done bool
}

// BeginPasswordReset checks that an account exists for email. It does not
// require a session.
func (m *SessionManager) BeginPasswordReset(ctx context.Context, email string) (*PasswordReset, error) {
	if e := validation.Email(email); e != nil {
		return nil, e
	}

	acct, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("password reset: %w", err)
	}
	if acct == nil {
		m.logger.Info(ctx, "password reset for unknown account", "email", email)
		return nil, common.ErrAccountNotFound
	}

	return &PasswordReset{m: m, email: email}, nil
}

// Email is the account the reset applies to.
func (r *PasswordReset) Email() string {
	return r.email
}

// Complete stores newPassword for the account. The session is not touched,
// even when the account is the signed-in one.
func (r *PasswordReset) Complete(ctx context.Context, newPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done {
		return common.ErrResetCompleted
	}
	if e := validation.Password(newPassword); e != nil {
		return e
	}

	if err := r.m.resetPassword(ctx, r.email, newPassword); err != nil {
		return err
	}
	r.done = true
	return nil
}

func (m *SessionManager) resetPassword(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.store.Update(ctx, email, accounts.Patch{Password: &password}); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrAccountNotFound
		}
		return fmt.Errorf("password reset: %w", err)
	}
	m.logger.Info(ctx, "password reset", "email", email)
	m.reloadUsers(ctx)
	return nil
}
