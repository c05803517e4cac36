// Package api is the typed client for the ledger REST API. Every operation
// sends one request through the transport and normalizes the reply through
// package wire. Failures from the transport are returned unchanged.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgerctl/internal/auth"
	"github.com/cleared-dev/ledgerctl/internal/investment"
	"github.com/cleared-dev/ledgerctl/internal/transport"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

// Client groups the resource operations. It is safe for concurrent use.
type Client struct {
	t        *transport.Client
	tokens   *auth.Storage
	book     *investment.Book
	ledgerID int64
	log      zerolog.Logger
}

// New creates a client. ledgerID, when positive, fills the ledger of
// listings and payloads that leave it unset. tokens may be nil when Login
// and Logout are not used.
func New(t *transport.Client, tokens *auth.Storage, ledgerID int64, log zerolog.Logger) *Client {
	return &Client{
		t:        t,
		tokens:   tokens,
		book:     investment.NewBook(),
		ledgerID: ledgerID,
		log:      log.With().Str("component", "api").Logger(),
	}
}

// Lots exposes the last-known lot state the sale pre-check reads.
func (c *Client) Lots() *investment.Book { return c.book }

func (c *Client) ledger(id int64) int64 {
	if id > 0 {
		return id
	}
	return c.ledgerID
}

func (c *Client) getRecord(ctx context.Context, path string, q url.Values) (wire.Record, error) {
	data, err := c.t.Get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	return decodeRecord(path, data)
}

func (c *Client) getRecords(ctx context.Context, path string, q url.Values) ([]wire.Record, error) {
	data, err := c.t.Get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	recs, err := wire.Records(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return recs, nil
}

func (c *Client) postRecord(ctx context.Context, path string, body any) (wire.Record, error) {
	data, err := c.t.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decodeRecord(path, data)
}

func (c *Client) patchRecord(ctx context.Context, path string, body any) (wire.Record, error) {
	data, err := c.t.Patch(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decodeRecord(path, data)
}

func decodeRecord(path string, data []byte) (wire.Record, error) {
	if len(data) == 0 {
		return wire.Record{}, nil
	}
	r, err := wire.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return r, nil
}

func itemPath(resource string, id int64) string {
	return resource + "/" + strconv.FormatInt(id, 10)
}

func setInt(q url.Values, key string, v int64) {
	if v > 0 {
		q.Set(key, strconv.FormatInt(v, 10))
	}
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
