package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/accountkeeper/internal/client/validation"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/google/uuid"
)

// UserStore is the account persistence the manager relies on.
// *accounts.Store implements it.
type UserStore interface {
	LoadAll(ctx context.Context) ([]accounts.Account, error)
	FindByEmail(ctx context.Context, email string) (*accounts.Account, error)
	Insert(ctx context.Context, a accounts.Account) error
	Update(ctx context.Context, email string, patch accounts.Patch) (*accounts.Account, error)
	Remove(ctx context.Context, email string) error
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Credentials is the login form.
type Credentials struct {
	Email    string
	Password string
}

type listener struct {
	id int
	fn func(State)
}

// SessionManager owns the session state and validates every entry point
// the view layer uses. Operations on one manager are serialized.
type SessionManager struct {
	store   UserStore
	markers metadata.Repository
	logger  logging.Logger

	mu    sync.Mutex
	state State
	users []accounts.Account

	lmu       sync.Mutex
	listeners []listener
	nextID    int
}

// NewSessionManager returns an uninitialized manager. The session marker
// is kept in markers under common.SessionKey.
func NewSessionManager(store UserStore, markers metadata.Repository, logger logging.Logger) *SessionManager {
	return &SessionManager{
		store:   store,
		markers: markers,
		logger:  logger.With("component", "session", "manager_id", uuid.NewString()),
	}
}

// State returns a snapshot of the session.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Users returns a copy of the cached account collection.
func (m *SessionManager) Users() []accounts.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.users)
}

// Init restores the session remembered in the marker. It runs once: after
// a successful call further calls do nothing. A failed call leaves the
// manager uninitialized and may be retried.
func (m *SessionManager) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Initialized {
		m.mu.Unlock()
		return nil
	}
	state, err := m.restore(ctx)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.notify(state)
	return nil
}

func (m *SessionManager) restore(ctx context.Context) (State, error) {
	users, err := m.store.LoadAll(ctx)
	if err != nil {
		return State{}, fmt.Errorf("init session: %w", err)
	}
	marker, err := m.markers.Get(ctx, common.SessionKey)
	if err != nil {
		return State{}, fmt.Errorf("init session: %w", err)
	}

	m.users = users
	var current *accounts.Account
	if email := string(marker); email != "" {
		if i := slices.IndexFunc(users, func(a accounts.Account) bool { return a.Email == email }); i >= 0 {
			u := users[i]
			current = &u
			m.logger.Info(ctx, "session restored", "email", email)
		} else {
			m.logger.Info(ctx, "stale session marker dropped", "email", email)
			if err := m.markers.Delete(ctx, common.SessionKey); err != nil {
				m.logger.Warn(ctx, "failed to drop stale session marker", "error", err)
			}
		}
	}

	m.state = State{CurrentUser: current, Initialized: true}
	return m.state.clone(), nil
}

// Register validates in, creates the account and signs it in.
func (m *SessionManager) Register(ctx context.Context, in RegisterInput) (*accounts.Account, error) {
	m.mu.Lock()
	state, err := m.register(ctx, in)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.notify(state)
	return state.clone().CurrentUser, nil
}

func (m *SessionManager) register(ctx context.Context, in RegisterInput) (State, error) {
	if !m.state.Initialized {
		return State{}, common.ErrNotInitialized
	}
	if err := validation.Registration(in.Name, in.Email, in.Password); err != nil {
		return State{}, err
	}
	acct := accounts.Account{Name: strings.TrimSpace(in.Name), Email: in.Email, Password: in.Password}

	if err := m.store.Insert(ctx, acct); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return State{}, common.ErrAccountExists
		}
		return State{}, fmt.Errorf("register: %w", err)
	}

	if err := m.setMarker(ctx, acct.Email); err != nil {
		if rerr := m.store.Remove(ctx, acct.Email); rerr != nil {
			m.logger.Error(ctx, "failed to roll back registration", "email", acct.Email, "error", rerr)
		}
		return State{}, fmt.Errorf("register: %w", err)
	}

	m.reloadUsers(ctx)
	m.logger.Info(ctx, "account registered", "email", acct.Email)
	return m.signIn(acct), nil
}

// Login signs in the account matching c. Unknown email and wrong password
// both fail with common.ErrInvalidCredentials.
func (m *SessionManager) Login(ctx context.Context, c Credentials) (*accounts.Account, error) {
	m.mu.Lock()
	state, err := m.login(ctx, c)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.notify(state)
	return state.clone().CurrentUser, nil
}

func (m *SessionManager) login(ctx context.Context, c Credentials) (State, error) {
	if !m.state.Initialized {
		return State{}, common.ErrNotInitialized
	}

	acct, err := m.store.FindByEmail(ctx, c.Email)
	if err != nil {
		return State{}, fmt.Errorf("login: %w", err)
	}
	if acct == nil || acct.Password != c.Password {
		m.logger.Info(ctx, "login rejected", "email", c.Email)
		return State{}, common.ErrInvalidCredentials
	}

	if err := m.setMarker(ctx, acct.Email); err != nil {
		return State{}, fmt.Errorf("login: %w", err)
	}

	m.logger.Info(ctx, "signed in", "email", acct.Email)
	return m.signIn(*acct), nil
}

// Logout ends the session. Once the manager is initialized it always
// succeeds; a marker that can not be removed is only logged.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if !m.state.Initialized {
		m.mu.Unlock()
		return common.ErrNotInitialized
	}
	m.clearMarker(ctx)
	state := m.signOut(ctx, "signed out")
	m.mu.Unlock()

	m.notify(state)
	return nil
}

// UpdateProfile applies patch to the signed-in account and refreshes the
// session copy. Store failures (common.ErrDuplicateEmail, common.ErrNotFound)
// are returned unchanged. If the account was saved but the session marker
// could not follow an email change, the session still moves to the updated
// account and the marker error is returned.
func (m *SessionManager) UpdateProfile(ctx context.Context, patch accounts.Patch) (*accounts.Account, error) {
	m.mu.Lock()
	state, err := m.updateProfile(ctx, patch)
	m.mu.Unlock()
	if state.Initialized {
		m.notify(state)
	}
	if err != nil {
		return nil, err
	}
	return state.clone().CurrentUser, nil
}

func (m *SessionManager) updateProfile(ctx context.Context, patch accounts.Patch) (State, error) {
	current, err := m.requireUser()
	if err != nil {
		return State{}, err
	}
	if err := checkPatch(&patch); err != nil {
		return State{}, err
	}
	if patch.IsEmpty() {
		return m.state.clone(), nil
	}

	updated, err := m.store.Update(ctx, current.Email, patch)
	if err != nil {
		return State{}, err
	}
	m.reloadUsers(ctx)

	var markerErr error
	if updated.Email != current.Email {
		if markerErr = m.setMarker(ctx, updated.Email); markerErr != nil {
			m.logger.Error(ctx, "session marker still points to the old email", "email", current.Email, "error", markerErr)
		}
	}

	m.logger.Info(ctx, "profile updated", "email", updated.Email)
	state := m.signIn(*updated)
	if markerErr != nil {
		return state, fmt.Errorf("update profile: %w", markerErr)
	}
	return state, nil
}

// DeleteAccount removes the signed-in account and ends the session. An
// account already removed elsewhere still ends the session successfully.
func (m *SessionManager) DeleteAccount(ctx context.Context) error {
	m.mu.Lock()
	state, err := m.deleteAccount(ctx)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.notify(state)
	return nil
}

func (m *SessionManager) deleteAccount(ctx context.Context) (State, error) {
	current, err := m.requireUser()
	if err != nil {
		return State{}, err
	}

	if err := m.store.Remove(ctx, current.Email); err != nil {
		return State{}, fmt.Errorf("delete account: %w", err)
	}
	m.clearMarker(ctx)
	m.reloadUsers(ctx)
	return m.signOut(ctx, "account deleted"), nil
}

// RefreshUsers re-reads the account collection after an out-of-band change.
// The session itself is left alone.
func (m *SessionManager) RefreshUsers(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	users, err := m.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh users: %w", err)
	}
	m.users = users
	return nil
}

// Subscribe registers fn to be called with the new State after every
// session change. Callbacks run synchronously on the goroutine that made the
// change and may call back into the manager.
func (m *SessionManager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.lmu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	m.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.lmu.Lock()
			defer m.lmu.Unlock()
			m.listeners = slices.DeleteFunc(m.listeners, func(l listener) bool { return l.id == id })
		})
	}
}

// Watch returns a channel carrying the current State followed by every
// change. Only the latest undelivered State is kept. The channel is closed
// once ctx is done.
func (m *SessionManager) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	var mu sync.Mutex
	closed := false
	push := func(s State) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case <-ch:
		default:
		}
		ch <- s
	}

	unsubscribe := m.Subscribe(push)
	push(m.State())

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}

func (m *SessionManager) notify(s State) {
	m.lmu.Lock()
	fns := make([]func(State), 0, len(m.listeners))
	for _, l := range m.listeners {
		fns = append(fns, l.fn)
	}
	m.lmu.Unlock()

	for _, fn := range fns {
		fn(s.clone())
	}
}

// requireUser returns the signed-in account. Callers hold m.mu.
func (m *SessionManager) requireUser() (*accounts.Account, error) {
	if !m.state.Initialized {
		return nil, common.ErrNotInitialized
	}
	if m.state.CurrentUser == nil {
		return nil, common.ErrNotAuthenticated
	}
	return m.state.CurrentUser, nil
}

func (m *SessionManager) signIn(acct accounts.Account) State {
	m.state.CurrentUser = &acct
	return m.state.clone()
}

func (m *SessionManager) signOut(ctx context.Context, msg string) State {
	if m.state.CurrentUser != nil {
		m.logger.Info(ctx, msg, "email", m.state.CurrentUser.Email)
	}
	m.state.CurrentUser = nil
	return m.state.clone()
}

func (m *SessionManager) setMarker(ctx context.Context, email string) error {
	return m.markers.Set(ctx, common.SessionKey, []byte(email))
}

func (m *SessionManager) clearMarker(ctx context.Context) {
	if err := m.markers.Delete(ctx, common.SessionKey); err != nil {
		m.logger.Error(ctx, "failed to clear session marker", "error", err)
	}
}

func (m *SessionManager) reloadUsers(ctx context.Context) {
	users, err := m.store.LoadAll(ctx)
	if err != nil {
		m.logger.Warn(ctx, "failed to reload users", "error", err)
		return
	}
	m.users = users
}

// checkPatch validates the fields patch sets and trims the name.
func checkPatch(patch *accounts.Patch) error {
	var errs validation.ValidationErrors
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		if e := validation.Name(name); e != nil {
			errs = append(errs, e)
		}
	}
	if patch.Email != nil {
		if e := validation.Email(*patch.Email); e != nil {
			errs = append(errs, e)
		}
	}
	if patch.Password != nil {
		if e := validation.Password(*patch.Password); e != nil {
			errs = append(errs, e)
		}
	}
	return errs.Err()
}
