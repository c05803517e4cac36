package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cleared-dev/ledgerctl/internal/investment"
	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

const (
	lotsPath  = "/investments/lots"
	buysPath  = "/investments/buys"
	salesPath = "/investments/sales"
)

// LotFilter narrows a lot listing. The server does the filtering.
type LotFilter struct {
	LedgerID   int64
	SecurityID int64
	Status     model.LotStatus
}

// ListLots fetches lots and records them as the last-known state. A lot
// whose quantities disagree beyond model.QuantityTolerance fails the whole
// listing with model.ErrLotInconsistent and leaves the book untouched.
func (c *Client) ListLots(ctx context.Context, f LotFilter) ([]model.Lot, error) {
	q := url.Values{}
	setInt(q, "ledger_id", c.ledger(f.LedgerID))
	setInt(q, "security_id", f.SecurityID)
	setString(q, "status", string(f.Status))

	recs, err := c.getRecords(ctx, lotsPath, q)
	if err != nil {
		return nil, err
	}
	lots := wire.MapAll(recs, wire.MapLot)
	for i, l := range lots {
		if err := l.Check(); err != nil {
			return nil, fmt.Errorf("listing lots: %w", err)
		}
		lots[i] = l.Settled()
	}
	c.book.Load(lots)
	return lots, nil
}

// CreateBuy records a buy, which opens one lot. The cost figures in the
// result come from the server.
func (c *Client) CreateBuy(ctx context.Context, b model.Buy) (model.BuyResult, error) {
	if err := investment.ValidateBuy(b); err != nil {
		return model.BuyResult{}, err
	}
	b.LedgerID = c.ledger(b.LedgerID)
	r, err := c.postRecord(ctx, buysPath, wire.ToBuyPayload(b))
	if err != nil {
		return model.BuyResult{}, err
	}
	res := wire.MapBuyResult(r)
	c.book.Put(lotFromBuy(b, res))
	return res, nil
}

// UpdateBuy replaces the economic fields of the buy that opened lotID. The
// server refuses when the lot already has allocations.
func (c *Client) UpdateBuy(ctx context.Context, lotID int64, b model.Buy) (model.BuyResult, error) {
	if err := investment.ValidateBuy(b); err != nil {
		return model.BuyResult{}, err
	}
	b.LedgerID = c.ledger(b.LedgerID)
	r, err := c.patchRecord(ctx, itemPath(buysPath, lotID), wire.ToBuyPayload(b))
	if err != nil {
		return model.BuyResult{}, err
	}
	res := wire.MapBuyResult(r)
	if res.LotID == 0 {
		res.LotID = lotID
	}
	c.book.Put(lotFromBuy(b, res))
	return res, nil
}

// DeleteBuy removes a buy and its lot.
func (c *Client) DeleteBuy(ctx context.Context, lotID int64) error {
	if _, err := c.t.Delete(ctx, itemPath(buysPath, lotID)); err != nil {
		return err
	}
	c.book.Remove(lotID)
	return nil
}

// CreateSale checks the allocations against the last-known lots and, when
// they pass, submits the sale. A failed check returns an error wrapping
// investment.ErrInvalidSale and sends nothing. The last-known state can be
// stale when other clients sell from the same lots; the server has the
// final word.
func (c *Client) CreateSale(ctx context.Context, s model.Sale) (model.SaleResult, error) {
	if err := c.book.Validate(s); err != nil {
		return model.SaleResult{}, err
	}
	s.LedgerID = c.ledger(s.LedgerID)
	r, err := c.postRecord(ctx, salesPath, wire.ToSalePayload(s))
	if err != nil {
		return model.SaleResult{}, err
	}
	if err := c.book.ApplySale(s); err != nil {
		// The server accepted the sale; the book catches up on the next listing.
		c.log.Warn().Err(err).Msg("Lot book out of date after sale")
	}
	return wire.MapSaleResult(r), nil
}

func lotFromBuy(b model.Buy, res model.BuyResult) model.Lot {
	qty := res.Quantity
	if qty.IsZero() {
		qty = b.Quantity
	}
	l := model.OpenLot(res.LotID, qty)
	l.LedgerID = b.LedgerID
	l.SecurityID = b.SecurityID
	l.SecurityTicker = b.SecurityTicker
	l.SecurityName = b.SecurityName
	l.Price = res.CostPrice
	l.TradePrice = res.Price
	l.Fee = res.Fee
	l.Tax = res.Tax
	l.TransactionID = res.TransactionID
	l.OccurredOn = b.OccurredOn
	return l
}
