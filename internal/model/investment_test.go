package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseLotStatus(t *testing.T) {
	tests := []struct {
		in   string
		want LotStatus
	}{
		{"closed", LotClosed},
		{"open", LotOpen},
		{"", LotOpen},
		{"CLOSED", LotOpen},
		{"archived", LotOpen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLotStatus(tt.in), "ParseLotStatus(%q)", tt.in)
	}
}

func TestOpenLot(t *testing.T) {
	lot := OpenLot(7, dec("100"))
	assert.Equal(t, LotOpen, lot.Status)
	assert.True(t, lot.AllocatedQuantity.IsZero())
	assert.True(t, lot.RemainingQuantity.Equal(dec("100")))
	assert.NoError(t, lot.Check())
}

func TestLotCheck(t *testing.T) {
	tests := []struct {
		name      string
		qty       string
		allocated string
		remaining string
		status    LotStatus
		ok        bool
	}{
		{"fresh", "10", "0", "10", LotOpen, true},
		{"partial", "10", "3.5", "6.5", LotOpen, true},
		{"closed", "10", "10", "0", LotClosed, true},
		{"sum mismatch", "10", "3", "6", LotOpen, false},
		{"closed with remaining", "10", "3", "7", LotClosed, false},
		{"open with nothing left", "10", "10", "0", LotOpen, false},
		{"negative remaining", "10", "11", "-1", LotClosed, false},
		{"negative allocated", "10", "-1", "11", LotOpen, false},
		{"float noise closed", "0.3", "0.30000000000000004", "-5.551115123125783e-17", LotClosed, true},
		{"float noise open", "0.3", "0.1", "0.19999999999999998", LotOpen, true},
		{"closed with dust", "1", "0.99999999999999999", "0.00000000000000001", LotClosed, true},
		{"sum off beyond tolerance", "1", "0.5", "0.49999", LotOpen, false},
		{"negative beyond tolerance", "1", "1.0001", "-0.0001", LotClosed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lot := Lot{
				LotID:             1,
				Quantity:          dec(tt.qty),
				AllocatedQuantity: dec(tt.allocated),
				RemainingQuantity: dec(tt.remaining),
				Status:            tt.status,
			}
			err := lot.Check()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrLotInconsistent)
			}
		})
	}
}

func TestLotAllocate(t *testing.T) {
	lot := OpenLot(1, dec("10"))

	require.NoError(t, lot.Allocate(dec("4")))
	assert.True(t, lot.AllocatedQuantity.Equal(dec("4")))
	assert.True(t, lot.RemainingQuantity.Equal(dec("6")))
	assert.Equal(t, LotOpen, lot.Status)
	assert.NoError(t, lot.Check())

	require.NoError(t, lot.Allocate(dec("6")))
	assert.True(t, lot.RemainingQuantity.IsZero())
	assert.Equal(t, LotClosed, lot.Status)
	assert.NoError(t, lot.Check())
}

func TestLotAllocate_FloatRemainder(t *testing.T) {
	lot := Lot{
		LotID:             2,
		Quantity:          dec("0.3"),
		AllocatedQuantity: dec("0.2"),
		RemainingQuantity: dec("0.09999999999999998"),
		Status:            LotOpen,
	}
	require.NoError(t, lot.Allocate(dec("0.1")))
	assert.True(t, lot.RemainingQuantity.IsZero())
	assert.Equal(t, LotClosed, lot.Status)
	assert.NoError(t, lot.Check())
}

func TestLotSettled(t *testing.T) {
	lot := Lot{
		LotID:             1,
		Quantity:          dec("0.3"),
		AllocatedQuantity: dec("0.30000000000000004"),
		RemainingQuantity: dec("-5.551115123125783e-17"),
		Status:            LotClosed,
	}
	settled := lot.Settled()
	assert.True(t, settled.RemainingQuantity.IsZero())
	assert.Equal(t, LotClosed, settled.Status)
	assert.True(t, settled.AllocatedQuantity.Equal(dec("0.30000000000000004")))

	open := OpenLot(2, dec("5")).Settled()
	assert.Equal(t, LotOpen, open.Status)
	assert.True(t, open.RemainingQuantity.Equal(dec("5")))
}

func TestLotAllocate_Rejects(t *testing.T) {
	lot := OpenLot(1, dec("10"))

	assert.Error(t, lot.Allocate(dec("0")))
	assert.Error(t, lot.Allocate(dec("-1")))
	assert.Error(t, lot.Allocate(dec("10.0001")))

	// Rejected allocations leave the lot untouched.
	assert.True(t, lot.AllocatedQuantity.IsZero())
	assert.True(t, lot.RemainingQuantity.Equal(dec("10")))
}

func TestSaleAllocatedQuantity(t *testing.T) {
	sale := Sale{Allocations: []SaleAllocation{
		{LotID: 1, Quantity: dec("1.25")},
		{LotID: 2, Quantity: dec("2.75")},
	}}
	assert.True(t, sale.AllocatedQuantity().Equal(dec("4")))
	assert.True(t, Sale{}.AllocatedQuantity().IsZero())
}

func TestBuyHasSecurity(t *testing.T) {
	assert.True(t, Buy{SecurityID: 3}.HasSecurity())
	assert.True(t, Buy{SecurityTicker: "VTI", SecurityName: "Vanguard Total"}.HasSecurity())
	assert.False(t, Buy{SecurityTicker: "VTI"}.HasSecurity())
	assert.False(t, Buy{}.HasSecurity())
}
