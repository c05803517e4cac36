package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerctl/internal/investment"
	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/transport"
)

const lotsBody = `[
	{"lot_id":1,"ledger_id":1,"security_id":2,"security_ticker":"VTI","quantity":10,"price":201,
	 "trade_price":200,"allocated_quantity":0,"remaining_quantity":10,"status":"open"},
	{"lot_id":2,"ledger_id":1,"security_id":2,"security_ticker":"VTI","quantity":5,"price":181,
	 "trade_price":180,"allocated_quantity":2,"remaining_quantity":3,"status":"open"}
]`

func sellVTI(qty string, allocs ...model.SaleAllocation) model.Sale {
	return model.Sale{
		OccurredOn:          "2024-05-01",
		SecurityID:          2,
		CashAccountID:       1,
		InvestmentAccountID: 5,
		Quantity:            dec(qty),
		Price:               dec("250"),
		Allocations:         allocs,
	}
}

func TestListLots(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("GET /api/investments/lots", lotsBody, http.StatusOK)

	lots, err := h.client.ListLots(ctx, LotFilter{SecurityID: 2, Status: model.LotOpen})
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, map[string]string{"ledger_id": "1", "security_id": "2", "status": "open"}, h.server.last(t).Query)

	for _, l := range lots {
		assert.NoError(t, l.Check())
	}
	l, ok := h.client.Lots().Get(2)
	require.True(t, ok)
	assert.True(t, l.RemainingQuantity.Equal(dec("3")))
}

func TestListLots_Inconsistent(t *testing.T) {
	tests := map[string]string{
		"sum mismatch":       `[{"lot_id":1,"quantity":10,"allocated_quantity":4,"remaining_quantity":5,"status":"open"}]`,
		"closed with rest":   `[{"lot_id":1,"quantity":10,"allocated_quantity":4,"remaining_quantity":6,"status":"closed"}]`,
		"open at zero":       `[{"lot_id":1,"quantity":10,"allocated_quantity":10,"remaining_quantity":0,"status":"open"}]`,
		"negative remaining": `[{"lot_id":1,"quantity":10,"allocated_quantity":11,"remaining_quantity":-1,"status":"open"}]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, 0)
			h.server.handle("GET /api/investments/lots", body, http.StatusOK)

			_, err := h.client.ListLots(ctx, LotFilter{})
			assert.ErrorIs(t, err, model.ErrLotInconsistent)
			assert.Empty(t, h.client.Lots().Lots())
		})
	}
}

// Quantities as the server writes them after float64 arithmetic.
const fractionalLotsBody = `[
	{"lot_id":1,"security_id":2,"quantity":0.3,"allocated_quantity":0.30000000000000004,
	 "remaining_quantity":-5.551115123125783e-17,"status":"closed"},
	{"lot_id":2,"security_id":2,"quantity":0.3,"allocated_quantity":0.2,
	 "remaining_quantity":0.09999999999999998,"status":"open"}
]`

func TestListLots_FractionalShares(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("GET /api/investments/lots", fractionalLotsBody, http.StatusOK)
	h.server.handle("POST /api/investments/sales", `{"transaction_id":41,"sale_id":7,"quantity":0.1,"price":250,"gross_amount":25,"cost_amount":20,"fee":0,"tax":0}`, http.StatusCreated)

	lots, err := h.client.ListLots(ctx, LotFilter{SecurityID: 2})
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.True(t, lots[0].RemainingQuantity.IsZero())
	assert.Equal(t, model.LotClosed, lots[0].Status)

	_, err = h.client.CreateSale(ctx, sellVTI("0.1", model.SaleAllocation{LotID: 2, Quantity: dec("0.1")}))
	require.NoError(t, err)

	l2, ok := h.client.Lots().Get(2)
	require.True(t, ok)
	assert.True(t, l2.RemainingQuantity.IsZero())
	assert.Equal(t, model.LotClosed, l2.Status)
}

func TestCreateSale_RejectedLocally(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("GET /api/investments/lots", lotsBody, http.StatusOK)
	h.server.handle("POST /api/investments/sales", `{"sale_id":1}`, http.StatusCreated)

	_, err := h.client.ListLots(ctx, LotFilter{})
	require.NoError(t, err)
	before := len(h.server.seen())

	tests := map[string]model.Sale{
		"sum mismatch":   sellVTI("6", model.SaleAllocation{LotID: 1, Quantity: dec("5")}),
		"over remaining": sellVTI("4", model.SaleAllocation{LotID: 2, Quantity: dec("4")}),
		"unknown lot":    sellVTI("1", model.SaleAllocation{LotID: 77, Quantity: dec("1")}),
		"no allocations": sellVTI("1"),
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := h.client.CreateSale(ctx, s)
			require.ErrorIs(t, err, investment.ErrInvalidSale)
		})
	}
	assert.Len(t, h.server.seen(), before, "nothing was sent")
}

func TestCreateSale_AppliesAllocations(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("GET /api/investments/lots", lotsBody, http.StatusOK)
	h.server.handle("POST /api/investments/sales", `{"transaction_id":40,"sale_id":6,"quantity":8,"price":250,"gross_amount":2000,"cost_amount":1548,"fee":0,"tax":0}`, http.StatusCreated)

	_, err := h.client.ListLots(ctx, LotFilter{})
	require.NoError(t, err)

	res, err := h.client.CreateSale(ctx, sellVTI("8",
		model.SaleAllocation{LotID: 1, Quantity: dec("5")},
		model.SaleAllocation{LotID: 2, Quantity: dec("3")},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.SaleID)
	assert.True(t, res.CostAmount.Equal(dec("1548")))

	body := h.server.last(t).Body
	assert.Equal(t, float64(1), body["ledger_id"])
	assert.Equal(t, float64(8), body["quantity"])
	assert.Equal(t, []any{
		map[string]any{"buy_lot_id": float64(1), "quantity": float64(5)},
		map[string]any{"buy_lot_id": float64(2), "quantity": float64(3)},
	}, body["allocations"])

	l1, _ := h.client.Lots().Get(1)
	assert.True(t, l1.RemainingQuantity.Equal(dec("5")))
	assert.Equal(t, model.LotOpen, l1.Status)

	l2, _ := h.client.Lots().Get(2)
	assert.True(t, l2.RemainingQuantity.IsZero())
	assert.Equal(t, model.LotClosed, l2.Status)

	// Lot 2 is now exhausted in the book; selling from it again is caught locally.
	_, err = h.client.CreateSale(ctx, sellVTI("1", model.SaleAllocation{LotID: 2, Quantity: dec("1")}))
	assert.ErrorIs(t, err, investment.ErrInvalidSale)
}

func TestCreateSale_ServerRejection(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("GET /api/investments/lots", lotsBody, http.StatusOK)
	h.server.handle("POST /api/investments/sales", `{"error":"allocation exceeds remaining quantity"}`, http.StatusBadRequest)

	_, err := h.client.ListLots(ctx, LotFilter{})
	require.NoError(t, err)

	_, err = h.client.CreateSale(ctx, sellVTI("2", model.SaleAllocation{LotID: 2, Quantity: dec("2")}))
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "allocation exceeds remaining quantity", apiErr.Message)

	l2, _ := h.client.Lots().Get(2)
	assert.True(t, l2.RemainingQuantity.Equal(dec("3")), "book unchanged after rejection")
}

func TestBuyLifecycle(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("POST /api/investments/buys", `{"transaction_id":30,"lot_id":12,"quantity":10,"price":20,"cost_price":20.5,"gross_amount":200,"cost_amount":205,"fee":5,"tax":0}`, http.StatusCreated)
	h.server.handle("PATCH /api/investments/buys/12", `{"transaction_id":30,"lot_id":12,"quantity":8,"price":20,"cost_price":20.5,"gross_amount":160,"cost_amount":164,"fee":4,"tax":0}`, http.StatusOK)
	h.server.handle("DELETE /api/investments/buys/12", ``, http.StatusNoContent)

	buy := model.Buy{
		OccurredOn:          "2024-01-15",
		SecurityTicker:      "ABC",
		SecurityName:        "ABC Corp",
		CashAccountID:       1,
		InvestmentAccountID: 5,
		Quantity:            dec("10"),
		Price:               dec("20"),
		Fee:                 dec("5"),
	}
	res, err := h.client.CreateBuy(ctx, buy)
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.LotID)
	assert.True(t, res.CostAmount.Equal(dec("205")))

	l, ok := h.client.Lots().Get(12)
	require.True(t, ok)
	assert.NoError(t, l.Check())
	assert.True(t, l.RemainingQuantity.Equal(dec("10")))

	buy.Quantity = dec("8")
	_, err = h.client.UpdateBuy(ctx, 12, buy)
	require.NoError(t, err)
	l, _ = h.client.Lots().Get(12)
	assert.True(t, l.Quantity.Equal(dec("8")))
	assert.Equal(t, http.MethodPatch, h.server.last(t).Method)

	require.NoError(t, h.client.DeleteBuy(ctx, 12))
	_, ok = h.client.Lots().Get(12)
	assert.False(t, ok)
}

func TestCreateBuy_RequiresSecurity(t *testing.T) {
	h := newHarness(t, 1)
	_, err := h.client.CreateBuy(ctx, model.Buy{SecurityTicker: "ABC", Quantity: dec("1"), Price: dec("1")})
	assert.ErrorIs(t, err, investment.ErrInvalidBuy)
	assert.Empty(t, h.server.seen())
}

func TestDeleteBuy_ServerRefusal(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("GET /api/investments/lots", lotsBody, http.StatusOK)
	h.server.handle("DELETE /api/investments/buys/2", `{"error":"lot has sales"}`, http.StatusConflict)

	_, err := h.client.ListLots(ctx, LotFilter{})
	require.NoError(t, err)

	err = h.client.DeleteBuy(ctx, 2)
	assert.EqualError(t, err, "lot has sales")
	_, ok := h.client.Lots().Get(2)
	assert.True(t, ok)
}
