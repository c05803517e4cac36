package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

func sample() []model.Account {
	return []model.Account{
		{ID: 1, Name: "Checking", Type: model.AccountTypeCash, Currency: "USD", IsActive: true},
		{ID: 2, Name: "Visa", Type: model.AccountTypeLiability, Currency: "USD", IsActive: true},
		{ID: 3, Name: "Old Savings", Type: model.AccountTypeCash, Currency: "EUR", IsActive: false},
		{ID: 4, Name: "Brokerage", Type: model.AccountTypeInvestment, Currency: "USD", IsActive: true},
		{ID: 5, Name: "Crypto", Type: model.AccountType("crypto"), Currency: "BTC", IsActive: true},
	}
}

type listerFunc func(ctx context.Context) ([]model.Account, error)

func (f listerFunc) ListAccounts(ctx context.Context) ([]model.Account, error) { return f(ctx) }

func TestLoad(t *testing.T) {
	svc, err := Load(context.Background(), listerFunc(func(context.Context) ([]model.Account, error) {
		return sample(), nil
	}))
	require.NoError(t, err)
	assert.Len(t, svc.All(), 5)

	_, err = Load(context.Background(), listerFunc(func(context.Context) ([]model.Account, error) {
		return nil, errors.New("boom")
	}))
	assert.EqualError(t, err, "loading accounts: boom")
}

func TestGetExists(t *testing.T) {
	svc := NewService(sample())

	acct, ok := svc.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "Visa", acct.Name)

	_, ok = svc.Get(99)
	assert.False(t, ok)

	assert.True(t, svc.Exists(1))
	assert.False(t, svc.Exists(99))
}

func TestByTypeAndActive(t *testing.T) {
	svc := NewService(sample())

	cash := svc.ByType(model.AccountTypeCash)
	require.Len(t, cash, 2)
	for _, a := range cash {
		assert.Equal(t, model.AccountTypeCash, a.Type)
	}
	assert.Empty(t, svc.ByType(model.AccountTypeReceivable))

	active := svc.Active()
	assert.Len(t, active, 4)
	for _, a := range active {
		assert.NotEqual(t, int64(3), a.ID)
	}
}

func TestGrouped(t *testing.T) {
	groups := NewService(sample()).Grouped()

	var types []model.AccountType
	for _, g := range groups {
		types = append(types, g.Type)
	}
	assert.Equal(t, []model.AccountType{
		model.AccountTypeCash,
		model.AccountTypeLiability,
		model.AccountTypeInvestment,
		"crypto",
	}, types)
	assert.Len(t, groups[0].Accounts, 2)
}

func TestNameAndCurrency(t *testing.T) {
	svc := NewService(sample())
	assert.Equal(t, "Brokerage", svc.Name(4))
	assert.Equal(t, "#42", svc.Name(42))
	assert.Equal(t, "EUR", svc.Currency(3))
	assert.Equal(t, "", svc.Currency(42))
}
