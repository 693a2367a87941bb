package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/accountkeeper/internal/client/validation"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var aliceIn = RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}

func ptr(s string) *string { return &s }

// faultyRepo fails Get/Set/Delete for the keys listed in fail and passes
// everything else through.
type faultyRepo struct {
	metadata.Repository
	fail map[string]error
}

func (f *faultyRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if err := f.fail[key]; err != nil {
		return nil, err
	}
	return f.Repository.Get(ctx, key)
}

func (f *faultyRepo) Set(ctx context.Context, key string, value []byte) error {
	if err := f.fail[key]; err != nil {
		return err
	}
	return f.Repository.Set(ctx, key, value)
}

func (f *faultyRepo) Delete(ctx context.Context, key string) error {
	if err := f.fail[key]; err != nil {
		return err
	}
	return f.Repository.Delete(ctx, key)
}

func newManager(t *testing.T, repo metadata.Repository) *SessionManager {
	t.Helper()
	m := NewSessionManager(accounts.NewStore(repo, logging.NewNop()), repo, logging.NewNop())
	require.NoError(t, m.Init(context.Background()))
	return m
}

func storedUsers(t *testing.T, repo metadata.Repository) []accounts.Account {
	t.Helper()
	list, err := accounts.NewStore(repo, logging.NewNop()).LoadAll(context.Background())
	require.NoError(t, err)
	return list
}

func TestInit_EmptyStoreIsAnonymous(t *testing.T) {
	repo := metadata.NewMemoryRepository()
	m := NewSessionManager(accounts.NewStore(repo, logging.NewNop()), repo, logging.NewNop())
	assert.Equal(t, StatusUninitialized, m.State().Status())

	require.NoError(t, m.Init(context.Background()))
	st := m.State()
	assert.True(t, st.Initialized)
	assert.Nil(t, st.CurrentUser)
	assert.Equal(t, StatusAnonymous, st.Status())
}

func TestInit_RestoresSessionAcrossManagers(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()

	first := newManager(t, repo)
	_, err := first.Register(ctx, aliceIn)
	require.NoError(t, err)

	second := newManager(t, repo)
	st := second.State()
	require.Equal(t, StatusAuthenticated, st.Status())
	assert.Equal(t, "alice@example.com", st.CurrentUser.Email)
	assert.Equal(t, "Alice", st.CurrentUser.Name)
	assert.Len(t, second.Users(), 1)
}

func TestInit_StaleMarkerIsDropped(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	require.NoError(t, repo.Set(ctx, common.SessionKey, []byte("ghost@example.com")))

	m := newManager(t, repo)
	assert.Equal(t, StatusAnonymous, m.State().Status())

	v, err := repo.Get(ctx, common.SessionKey)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestInit_RunsOnce(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := NewSessionManager(accounts.NewStore(repo, logging.NewNop()), repo, logging.NewNop())

	calls := 0
	m.Subscribe(func(State) { calls++ })

	require.NoError(t, m.Init(ctx))
	require.NoError(t, m.Init(ctx))
	assert.Equal(t, 1, calls)
}

func TestInit_FailureLeavesManagerUninitialized(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	repo := &faultyRepo{Repository: metadata.NewMemoryRepository(), fail: map[string]error{common.SessionKey: boom}}
	m := NewSessionManager(accounts.NewStore(repo, logging.NewNop()), repo, logging.NewNop())

	err := m.Init(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StatusUninitialized, m.State().Status())

	delete(repo.fail, common.SessionKey)
	require.NoError(t, m.Init(ctx))
	assert.Equal(t, StatusAnonymous, m.State().Status())
}

func TestOperationsBeforeInit(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := NewSessionManager(accounts.NewStore(repo, logging.NewNop()), repo, logging.NewNop())

	_, err := m.Register(ctx, RegisterInput{})
	assert.ErrorIs(t, err, common.ErrNotInitialized)
	_, err = m.Login(ctx, Credentials{Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrNotInitialized)
	assert.ErrorIs(t, m.Logout(ctx), common.ErrNotInitialized)
	_, err = m.UpdateProfile(ctx, accounts.Patch{Name: ptr("x")})
	assert.ErrorIs(t, err, common.ErrNotInitialized)
	assert.ErrorIs(t, m.DeleteAccount(ctx), common.ErrNotInitialized)
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metadata.NewMemoryRepository())

	reg, err := m.Register(ctx, RegisterInput{Name: "  Alice  ", Email: aliceIn.Email, Password: aliceIn.Password})
	require.NoError(t, err)
	assert.Equal(t, "Alice", reg.Name)
	assert.Equal(t, StatusAuthenticated, m.State().Status())

	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, StatusAnonymous, m.State().Status())

	got, err := m.Login(ctx, Credentials{Email: aliceIn.Email, Password: aliceIn.Password})
	require.NoError(t, err)
	assert.Equal(t, reg.Email, got.Email)
	assert.Equal(t, reg.Name, got.Name)
	assert.Equal(t, StatusAuthenticated, m.State().Status())
}

func TestRegister_ValidationReportsEveryField(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)

	_, err := m.Register(ctx, RegisterInput{Name: " ", Email: "nope", Password: "abc"})
	require.ErrorIs(t, err, common.ErrValidation)

	var errs validation.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "Full name is required", errs.Message(validation.FieldName))
	assert.Equal(t, "Invalid email", errs.Message(validation.FieldEmail))
	assert.Equal(t, "Minimum 6 characters required", errs.Message(validation.FieldPassword))

	assert.Empty(t, storedUsers(t, repo))
	assert.Equal(t, StatusAnonymous, m.State().Status())
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	m := newManager(t, metadata.NewMemoryRepository())

	_, err := m.Register(context.Background(), RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "abcdef"})
	var errs validation.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "Password is too weak", errs.Message(validation.FieldPassword))
}

func TestRegister_ExistingEmail(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)

	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))
	before := storedUsers(t, repo)

	_, err = m.Register(ctx, RegisterInput{Name: "Other", Email: aliceIn.Email, Password: "other-pw1"})
	require.ErrorIs(t, err, common.ErrAccountExists)
	assert.Equal(t, before, storedUsers(t, repo))
	assert.Equal(t, StatusAnonymous, m.State().Status())
}

func TestRegister_MarkerFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	repo := &faultyRepo{Repository: metadata.NewMemoryRepository(), fail: map[string]error{}}
	m := newManager(t, repo)

	repo.fail[common.SessionKey] = boom
	_, err := m.Register(ctx, aliceIn)
	require.ErrorIs(t, err, boom)

	assert.Empty(t, storedUsers(t, repo))
	assert.Equal(t, StatusAnonymous, m.State().Status())
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))
	before := storedUsers(t, repo)

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"wrong password", Credentials{Email: aliceIn.Email, Password: "secret2"}},
		{"unknown email", Credentials{Email: "nobody@example.com", Password: aliceIn.Password}},
		{"case differs", Credentials{Email: aliceIn.Email, Password: "SECRET1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Login(ctx, tt.creds)
			require.ErrorIs(t, err, common.ErrInvalidCredentials)
			assert.Equal(t, StatusAnonymous, m.State().Status())
			assert.Equal(t, before, storedUsers(t, repo))
		})
	}
}

func TestUpdateProfile_EmailChangeMovesLogin(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	updated, err := m.UpdateProfile(ctx, accounts.Patch{Email: ptr("alice@new.example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example.com", updated.Email)
	assert.Equal(t, "alice@new.example.com", m.State().CurrentUser.Email)

	marker, err := repo.Get(ctx, common.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example.com", string(marker))

	require.NoError(t, m.Logout(ctx))
	_, err = m.Login(ctx, Credentials{Email: "alice@new.example.com", Password: aliceIn.Password})
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))
	_, err = m.Login(ctx, Credentials{Email: aliceIn.Email, Password: aliceIn.Password})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUpdateProfile_NameAndPassword(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metadata.NewMemoryRepository())
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	updated, err := m.UpdateProfile(ctx, accounts.Patch{Name: ptr(" Alice Liddell "), Password: ptr("abcdef")})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.Equal(t, "abcdef", updated.Password)
	assert.Equal(t, "Alice Liddell", m.Users()[0].Name)
}

func TestUpdateProfile_Failures(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)

	_, err := m.UpdateProfile(ctx, accounts.Patch{Name: ptr("x")})
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = m.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "bob-pw12"})
	require.NoError(t, err)
	_, err = m.Register(ctx, aliceIn)
	require.NoError(t, err)
	before := storedUsers(t, repo)

	_, err = m.UpdateProfile(ctx, accounts.Patch{Email: ptr("bob@example.com")})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	_, err = m.UpdateProfile(ctx, accounts.Patch{Email: ptr("bad"), Password: ptr("123")})
	var errs validation.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "Invalid email", errs.Message(validation.FieldEmail))
	assert.Equal(t, "Minimum 6 characters required", errs.Message(validation.FieldPassword))

	assert.Equal(t, before, storedUsers(t, repo))
	assert.Equal(t, aliceIn.Email, m.State().CurrentUser.Email)
}

func TestUpdateProfile_AccountRemovedElsewhere(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	require.NoError(t, accounts.NewStore(repo, logging.NewNop()).Remove(ctx, aliceIn.Email))

	_, err = m.UpdateProfile(ctx, accounts.Patch{Name: ptr("Alicia")})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	require.NoError(t, m.DeleteAccount(ctx))
	assert.Equal(t, StatusAnonymous, m.State().Status())
	assert.Empty(t, m.Users())

	marker, err := repo.Get(ctx, common.SessionKey)
	require.NoError(t, err)
	assert.Nil(t, marker)

	_, err = m.Login(ctx, Credentials{Email: aliceIn.Email, Password: aliceIn.Password})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	assert.ErrorIs(t, m.DeleteAccount(ctx), common.ErrNotAuthenticated)
}

func TestDeleteAccount_AlreadyRemovedStillSignsOut(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	require.NoError(t, accounts.NewStore(repo, logging.NewNop()).Remove(ctx, aliceIn.Email))

	require.NoError(t, m.DeleteAccount(ctx))
	assert.Equal(t, StatusAnonymous, m.State().Status())
}

func TestLogout_MarkerFailureStillSignsOut(t *testing.T) {
	ctx := context.Background()
	repo := &faultyRepo{Repository: metadata.NewMemoryRepository(), fail: map[string]error{}}
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	repo.fail[common.SessionKey] = errors.New("boom")
	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, StatusAnonymous, m.State().Status())
}

func TestRefreshUsers_KeepsSession(t *testing.T) {
	ctx := context.Background()
	repo := metadata.NewMemoryRepository()
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	calls := 0
	m.Subscribe(func(State) { calls++ })

	other := accounts.NewStore(repo, logging.NewNop())
	require.NoError(t, other.Insert(ctx, accounts.Account{Name: "Bob", Email: "bob@example.com", Password: "bob-pw12"}))
	assert.Len(t, m.Users(), 1)

	require.NoError(t, m.RefreshUsers(ctx))
	assert.Len(t, m.Users(), 2)
	assert.Equal(t, aliceIn.Email, m.State().CurrentUser.Email)
	assert.Zero(t, calls)
}

func TestState_IsACopy(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, metadata.NewMemoryRepository())
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	st := m.State()
	st.CurrentUser.Name = "Mallory"
	assert.Equal(t, "Alice", m.State().CurrentUser.Name)

	users := m.Users()
	users[0].Name = "Mallory"
	assert.Equal(t, "Alice", m.Users()[0].Name)
}

func TestUpdateProfile_EmptyPatchWritesNothing(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	repo := &faultyRepo{Repository: metadata.NewMemoryRepository(), fail: map[string]error{}}
	m := newManager(t, repo)
	_, err := m.Register(ctx, aliceIn)
	require.NoError(t, err)

	repo.fail[common.UsersKey] = boom
	got, err := m.UpdateProfile(ctx, accounts.Patch{})
	require.NoError(t, err)
	assert.Equal(t, aliceIn.Email, got.Email)
}
