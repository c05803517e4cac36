package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

const (
	transactionsPath = "/transactions"
	transfersPath    = "/transfers"
)

// TransactionFilter narrows a transaction listing. Zero values are not sent.
type TransactionFilter struct {
	LedgerID   int64
	AccountID  int64
	CategoryID int64
	Kind       model.TransactionKind
	DateFrom   string
	DateTo     string
	Page       int
	PageSize   int
}

func (f TransactionFilter) query() url.Values {
	q := url.Values{}
	setInt(q, "ledger_id", f.LedgerID)
	setInt(q, "account_id", f.AccountID)
	setInt(q, "category_id", f.CategoryID)
	setString(q, "kind", string(f.Kind))
	setString(q, "date_from", f.DateFrom)
	setString(q, "date_to", f.DateTo)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// ListTransactions returns one page of transaction rows and the total row
// count matching the filter.
func (c *Client) ListTransactions(ctx context.Context, f TransactionFilter) (model.TransactionPage, error) {
	f.LedgerID = c.ledger(f.LedgerID)
	r, err := c.getRecord(ctx, transactionsPath, f.query())
	if err != nil {
		return model.TransactionPage{}, err
	}
	return wire.MapTransactionPage(r), nil
}

// GetTransaction fetches a single transaction row.
func (c *Client) GetTransaction(ctx context.Context, id int64) (model.TransactionRow, error) {
	r, err := c.getRecord(ctx, itemPath(transactionsPath, id), nil)
	if err != nil {
		return model.TransactionRow{}, err
	}
	return wire.MapTransactionRow(r), nil
}

// CreateTransaction records a transaction. The amount is signed by kind.
func (c *Client) CreateTransaction(ctx context.Context, in model.TransactionInput) (model.TransactionRow, error) {
	p := wire.ToTransactionPayload(in)
	p.LedgerID = c.ledger(0)
	r, err := c.postRecord(ctx, transactionsPath, p)
	if err != nil {
		return model.TransactionRow{}, err
	}
	return wire.MapTransactionRow(r), nil
}

// UpdateTransaction patches a transaction, re-signing the amount by kind.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, in model.TransactionInput) error {
	_, err := c.t.Patch(ctx, itemPath(transactionsPath, id), wire.ToTransactionPayload(in))
	return err
}

// DeleteTransaction removes a transaction and its lines.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := c.t.Delete(ctx, itemPath(transactionsPath, id))
	return err
}

// CreateTransfer moves money between two accounts and returns the id of the
// transaction the server recorded.
func (c *Client) CreateTransfer(ctx context.Context, t model.Transfer) (int64, error) {
	t.LedgerID = c.ledger(t.LedgerID)
	r, err := c.postRecord(ctx, transfersPath, wire.ToTransferPayload(t))
	if err != nil {
		return 0, err
	}
	return wire.MapTransactionID(r), nil
}
