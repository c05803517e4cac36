package api

import (
	"context"

	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

const accountsPath = "/accounts"

// ListAccounts returns every account visible to the user.
func (c *Client) ListAccounts(ctx context.Context) ([]model.Account, error) {
	recs, err := c.getRecords(ctx, accountsPath, nil)
	if err != nil {
		return nil, err
	}
	return wire.MapAll(recs, wire.MapAccount), nil
}

// CreateAccount creates an account and returns the server's copy.
func (c *Client) CreateAccount(ctx context.Context, in model.AccountInput) (model.Account, error) {
	r, err := c.postRecord(ctx, accountsPath, wire.ToAccountPayload(in))
	if err != nil {
		return model.Account{}, err
	}
	return wire.MapAccount(r), nil
}

// UpdateAccount patches an account.
func (c *Client) UpdateAccount(ctx context.Context, id int64, in model.AccountInput) (model.Account, error) {
	r, err := c.patchRecord(ctx, itemPath(accountsPath, id), wire.ToAccountPayload(in))
	if err != nil {
		return model.Account{}, err
	}
	return wire.MapAccount(r), nil
}

// DeleteAccount removes an account.
func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	_, err := c.t.Delete(ctx, itemPath(accountsPath, id))
	return err
}
