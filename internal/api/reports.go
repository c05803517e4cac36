package api

import (
	"context"
	"net/url"

	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

const balanceSheetPath = "/reports/balance-sheet"

// BalanceSheet fetches the server-computed balance sheet. asOf is a
// YYYY-MM-DD date; empty means today.
func (c *Client) BalanceSheet(ctx context.Context, ledgerID int64, asOf string) (model.BalanceSheet, error) {
	q := url.Values{}
	setInt(q, "ledger_id", c.ledger(ledgerID))
	setString(q, "as_of", asOf)
	r, err := c.getRecord(ctx, balanceSheetPath, q)
	if err != nil {
		return model.BalanceSheet{}, err
	}
	return wire.MapBalanceSheet(r), nil
}
