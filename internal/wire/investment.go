package wire

import "github.com/cleared-dev/ledgerctl/internal/model"

// MapLot normalizes an investment lot record. Any status other than
// "closed" reads as open.
func MapLot(r Record) model.Lot {
	return model.Lot{
		LotID:             r.Int("LotID", "lot_id", "lotId"),
		LedgerID:          r.Int("LedgerID", "ledger_id", "ledgerId"),
		SecurityID:        r.Int("SecurityID", "security_id", "securityId"),
		SecurityTicker:    r.String("SecurityTicker", "security_ticker", "securityTicker"),
		SecurityName:      r.String("SecurityName", "security_name", "securityName"),
		Quantity:          r.Decimal("Quantity", "quantity"),
		Price:             r.Decimal("Price", "price"),
		TradePrice:        r.Decimal("TradePrice", "trade_price", "tradePrice"),
		Fee:               r.Decimal("Fee", "fee"),
		Tax:               r.Decimal("Tax", "tax"),
		TransactionLineID: r.Int("TransactionLineID", "transaction_line_id", "transactionLineId"),
		TransactionID:     r.Int("TransactionID", "transaction_id", "transactionId"),
		OccurredOn:        r.Date("OccurredOn", "occurred_on", "occurredOn"),
		AllocatedQuantity: r.Decimal("AllocatedQuantity", "allocated_quantity", "allocatedQuantity"),
		RemainingQuantity: r.Decimal("RemainingQuantity", "remaining_quantity", "remainingQuantity"),
		Status:            model.ParseLotStatus(r.String("Status", "status")),
	}
}

// MapBuyResult normalizes the response to a buy create or update.
func MapBuyResult(r Record) model.BuyResult {
	return model.BuyResult{
		TransactionID: r.Int("TransactionID", "transaction_id", "transactionId"),
		LotID:         r.Int("LotID", "lot_id", "lotId"),
		Quantity:      r.Decimal("Quantity", "quantity"),
		Price:         r.Decimal("Price", "price"),
		CostPrice:     r.Decimal("CostPrice", "cost_price", "costPrice"),
		GrossAmount:   r.Decimal("GrossAmount", "gross_amount", "grossAmount"),
		CostAmount:    r.Decimal("CostAmount", "cost_amount", "costAmount"),
		Fee:           r.Decimal("Fee", "fee"),
		Tax:           r.Decimal("Tax", "tax"),
	}
}

// MapSaleResult normalizes the response to a sale.
func MapSaleResult(r Record) model.SaleResult {
	return model.SaleResult{
		TransactionID: r.Int("TransactionID", "transaction_id", "transactionId"),
		SaleID:        r.Int("SaleID", "sale_id", "saleId"),
		Quantity:      r.Decimal("Quantity", "quantity"),
		Price:         r.Decimal("Price", "price"),
		GrossAmount:   r.Decimal("GrossAmount", "gross_amount", "grossAmount"),
		CostAmount:    r.Decimal("CostAmount", "cost_amount", "costAmount"),
		Fee:           r.Decimal("Fee", "fee"),
		Tax:           r.Decimal("Tax", "tax"),
	}
}
