package accounts

import (
	"context"
	"fmt"
	"sort"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// Lister fetches the account list. *api.Client satisfies it.
type Lister interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
}

// Service provides in-memory lookup over a fetched account list.
type Service struct {
	accounts []model.Account
	byID     map[int64]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[int64]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{accounts: accounts, byID: byID}
}

// Load fetches the accounts and returns a Service over them.
func Load(ctx context.Context, l Lister) (*Service, error) {
	accts, err := l.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in server order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int64) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int64) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Active returns the accounts still open for new transactions.
func (s *Service) Active() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.IsActive {
			result = append(result, a)
		}
	}
	return result
}

// Grouped returns accounts bucketed by type, in model.AccountTypes order
// followed by any unknown types sorted by name. Empty groups are skipped.
func (s *Service) Grouped() []Group {
	buckets := make(map[model.AccountType][]model.Account)
	for _, a := range s.accounts {
		buckets[a.Type] = append(buckets[a.Type], a)
	}

	var groups []Group
	for _, t := range model.AccountTypes {
		if accts := buckets[t]; len(accts) > 0 {
			groups = append(groups, Group{Type: t, Accounts: accts})
			delete(buckets, t)
		}
	}
	var unknown []model.AccountType
	for t := range buckets {
		unknown = append(unknown, t)
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, t := range unknown {
		groups = append(groups, Group{Type: t, Accounts: buckets[t]})
	}
	return groups
}

// Group is one account type and its accounts.
type Group struct {
	Type     model.AccountType
	Accounts []model.Account
}

// Name returns the account's display name, or "#id" when it is unknown.
func (s *Service) Name(id int64) string {
	if a, ok := s.byID[id]; ok {
		return a.Name
	}
	return fmt.Sprintf("#%d", id)
}

// Currency returns the account's currency code, or "" when it is unknown.
func (s *Service) Currency(id int64) string {
	return s.byID[id].Currency
}
