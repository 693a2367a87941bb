package accounts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

// Store provides CRUD over the account collection stored under
// common.UsersKey.
type Store struct {
	repo   metadata.Repository
	logger logging.Logger
}

func NewStore(repo metadata.Repository, logger logging.Logger) *Store {
	return &Store{repo: repo, logger: logger.With("component", "accounts")}
}

// LoadAll returns every stored account. An absent or undecodable blob is an
// empty collection; only backend failures are returned as errors.
func (s *Store) LoadAll(ctx context.Context) ([]Account, error) {
	data, err := s.repo.Get(ctx, common.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if len(data) == 0 {
		return []Account{}, nil
	}

	var list []Account
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn(ctx, "stored accounts are malformed, treating as empty", "key", common.UsersKey, "error", err)
		return []Account{}, nil
	}
	if list == nil {
		list = []Account{}
	}
	return list, nil
}

// SaveAll replaces the stored collection with list.
func (s *Store) SaveAll(ctx context.Context, list []Account) error {
	if list == nil {
		list = []Account{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := s.repo.Set(ctx, common.UsersKey, data); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// FindByEmail returns a copy of the account with the given email, or nil.
func (s *Store) FindByEmail(ctx context.Context, email string) (*Account, error) {
	list, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(list, email); i >= 0 {
		found := list[i]
		return &found, nil
	}
	return nil, nil
}

// Insert adds a. It fails with common.ErrDuplicateEmail when the email is
// already taken, leaving the collection untouched.
func (s *Store) Insert(ctx context.Context, a Account) error {
	list, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	if indexOf(list, a.Email) >= 0 {
		return common.ErrDuplicateEmail
	}
	return s.SaveAll(ctx, append(list, a))
}

// Update merges patch into the account stored under email and returns the
// result. It fails with common.ErrNotFound when there is no such account and
// with common.ErrDuplicateEmail when the new email belongs to another one.
func (s *Store) Update(ctx context.Context, email string, patch Patch) (*Account, error) {
	list, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(list, email)
	if i < 0 {
		return nil, common.ErrNotFound
	}
	if patch.ChangesEmail(email) && indexOf(list, *patch.Email) >= 0 {
		return nil, common.ErrDuplicateEmail
	}

	patch.apply(&list[i])
	if err := s.SaveAll(ctx, list); err != nil {
		return nil, err
	}

	updated := list[i]
	return &updated, nil
}

// Remove deletes the account stored under email. Removing an absent account
// is not an error and does not write.
func (s *Store) Remove(ctx context.Context, email string) error {
	list, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	i := indexOf(list, email)
	if i < 0 {
		return nil
	}
	return s.SaveAll(ctx, append(list[:i], list[i+1:]...))
}

func indexOf(list []Account, email string) int {
	for i := range list {
		if list[i].Email == email {
			return i
		}
	}
	return -1
}
