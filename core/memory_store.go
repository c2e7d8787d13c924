package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
	nowFn    func() time.Time
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[string]Account),
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryAccountStore) Create(_ context.Context, account Account) (Account, error) {
	if s == nil {
		return Account{}, fmt.Errorf("core: memory account store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := account.Ref().key()
	if _, exists := s.accounts[key]; exists {
		return Account{}, alreadyExistsError(fmt.Sprintf("core: account %q already exists for %q", account.Name, account.Owner))
	}
	now := s.nowFn()
	stored := account.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.accounts[key] = stored
	return stored.Clone(), nil
}

func (s *MemoryAccountStore) Get(_ context.Context, ref AccountRef) (Account, error) {
	if s == nil {
		return Account{}, fmt.Errorf("core: memory account store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[ref.key()]
	if !ok {
		return Account{}, notFoundError(fmt.Sprintf("core: account %q not found for %q", ref.Name, ref.Owner))
	}
	return account.Clone(), nil
}

func (s *MemoryAccountStore) Save(_ context.Context, account Account) (Account, error) {
	if s == nil {
		return Account{}, fmt.Errorf("core: memory account store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := account.Ref().key()
	existing, ok := s.accounts[key]
	if !ok {
		return Account{}, notFoundError(fmt.Sprintf("core: account %q not found for %q", account.Name, account.Owner))
	}
	stored := account.Clone()
	stored.ID = existing.ID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.nowFn()
	s.accounts[key] = stored
	return stored.Clone(), nil
}

func (s *MemoryAccountStore) Delete(_ context.Context, ref AccountRef) error {
	if s == nil {
		return fmt.Errorf("core: memory account store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ref.key()
	if _, ok := s.accounts[key]; !ok {
		return notFoundError(fmt.Sprintf("core: account %q not found for %q", ref.Name, ref.Owner))
	}
	delete(s.accounts, key)
	return nil
}

func (s *MemoryAccountStore) ListByOwner(_ context.Context, owner string) ([]Account, error) {
	return s.list(func(account Account) bool {
		return account.Owner == owner
	})
}

func (s *MemoryAccountStore) ListGrantedTo(_ context.Context, appID string) ([]Account, error) {
	return s.list(func(account Account) bool {
		return account.HasAccessGrant(appID)
	})
}

func (s *MemoryAccountStore) list(match func(Account) bool) ([]Account, error) {
	if s == nil {
		return nil, fmt.Errorf("core: memory account store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, 0)
	for _, account := range s.accounts {
		if match(account) {
			out = append(out, account.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner < out[j].Owner
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

var _ AccountStore = (*MemoryAccountStore)(nil)
