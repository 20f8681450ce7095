package stores

import (
	"context"
	"sync"

	"github.com/gymops/gymauth"
)

// MemoryAccounts is a mutex-guarded in-memory AccountStore. Values are
// copied on every read and write so callers never share row memory with
// the store.
type MemoryAccounts struct {
	mu       sync.RWMutex
	accounts map[string]gymauth.Account
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{accounts: make(map[string]gymauth.Account)}
}

func accountKey(kind gymauth.AccountKind, username string) string {
	return string(kind) + "\x00" + username
}

func cloneAccount(a gymauth.Account) gymauth.Account {
	if a.LockUntil != nil {
		t := *a.LockUntil
		a.LockUntil = &t
	}
	return a
}

func (s *MemoryAccounts) FindByUsername(_ context.Context, kind gymauth.AccountKind, username string) (*gymauth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[accountKey(kind, username)]
	if !ok {
		return nil, gymauth.ErrAccountNotFound
	}
	out := cloneAccount(a)
	return &out, nil
}

func (s *MemoryAccounts) Create(_ context.Context, account *gymauth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey(account.Kind, account.Username)
	if _, ok := s.accounts[key]; ok {
		return gymauth.ErrAccountExists
	}
	s.accounts[key] = cloneAccount(*account)
	return nil
}

func (s *MemoryAccounts) Update(_ context.Context, account *gymauth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey(account.Kind, account.Username)
	if _, ok := s.accounts[key]; !ok {
		return gymauth.ErrAccountNotFound
	}
	s.accounts[key] = cloneAccount(*account)
	return nil
}
