package api

import (
	"context"
	"net/url"

	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

const snapshotsPath = "/account-snapshots"

// SnapshotFilter narrows a snapshot listing.
type SnapshotFilter struct {
	LedgerID  int64
	AccountID int64
}

// ListSnapshots lists balance snapshots, optionally for one account.
func (c *Client) ListSnapshots(ctx context.Context, f SnapshotFilter) ([]model.AccountSnapshot, error) {
	q := url.Values{}
	setInt(q, "ledger_id", c.ledger(f.LedgerID))
	setInt(q, "account_id", f.AccountID)
	recs, err := c.getRecords(ctx, snapshotsPath, q)
	if err != nil {
		return nil, err
	}
	return wire.MapAll(recs, wire.MapSnapshot), nil
}

// CreateSnapshot records a balance assertion in the client's ledger.
func (c *Client) CreateSnapshot(ctx context.Context, in model.SnapshotInput) (model.AccountSnapshot, error) {
	p := wire.ToSnapshotPayload(in)
	p.LedgerID = c.ledger(0)
	r, err := c.postRecord(ctx, snapshotsPath, p)
	if err != nil {
		return model.AccountSnapshot{}, err
	}
	return wire.MapSnapshot(r), nil
}

// UpdateSnapshot changes the date, amount or note of a snapshot. Nil fields
// of patch are left as they are.
func (c *Client) UpdateSnapshot(ctx context.Context, id int64, patch wire.SnapshotPatch) (model.AccountSnapshot, error) {
	r, err := c.patchRecord(ctx, itemPath(snapshotsPath, id), patch)
	if err != nil {
		return model.AccountSnapshot{}, err
	}
	return wire.MapSnapshot(r), nil
}

// DeleteSnapshot removes a snapshot.
func (c *Client) DeleteSnapshot(ctx context.Context, id int64) error {
	_, err := c.t.Delete(ctx, itemPath(snapshotsPath, id))
	return err
}
