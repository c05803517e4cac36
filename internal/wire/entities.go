package wire

import "github.com/cleared-dev/ledgerctl/internal/model"

// MapAccount normalizes an account record.
func MapAccount(r Record) model.Account {
	return model.Account{
		ID:        r.Int("ID", "id"),
		Name:      r.String("Name", "name"),
		Type:      model.AccountType(r.String("Type", "type")),
		Currency:  r.String("Currency", "currency"),
		IsActive:  r.Bool("IsActive", "is_active", "isActive"),
		CreatedAt: r.Time("CreatedAt", "created_at", "createdAt"),
	}
}

// MapCategory normalizes a category record. The parent is read from, in
// order, ParentID, parent_id, Parent.ID and parent.id; the first one present
// decides, and non-positive ids mean "no parent".
func MapCategory(r Record) model.Category {
	return model.Category{
		ID:       r.Int("ID", "id"),
		Name:     r.String("Name", "name"),
		Kind:     model.CategoryKind(r.String("Kind", "kind")),
		ParentID: model.NormalizeParentID(parentID(r)),
	}
}

func parentID(r Record) *int64 {
	for _, key := range []string{"ParentID", "parent_id"} {
		if id, ok := r.IntOK(key); ok {
			return &id
		}
	}
	for _, key := range []string{"Parent", "parent"} {
		p, ok := r.Object(key)
		if !ok {
			continue
		}
		if id, ok := p.IntOK("ID", "id"); ok {
			return &id
		}
	}
	return nil
}

// MapSnapshot normalizes an account snapshot record.
func MapSnapshot(r Record) model.AccountSnapshot {
	return model.AccountSnapshot{
		ID:        r.Int("ID", "id"),
		LedgerID:  r.Int("LedgerID", "ledger_id", "ledgerId"),
		AccountID: r.Int("AccountID", "account_id", "accountId"),
		AsOf:      r.Date("AsOf", "as_of", "asOf"),
		Amount:    r.Decimal("Amount", "amount"),
		Note:      r.String("Note", "note"),
		CreatedAt: r.Time("CreatedAt", "created_at", "createdAt"),
	}
}

// MapTransactionRow normalizes one row of a transaction listing.
func MapTransactionRow(r Record) model.TransactionRow {
	return model.TransactionRow{
		TransactionID: r.Int("TransactionID", "transaction_id", "transactionId"),
		LineID:        r.Int("LineID", "line_id", "lineId"),
		OccurredOn:    r.Date("OccurredOn", "occurred_on", "occurredOn"),
		AccountID:     r.Int("AccountID", "account_id", "accountId"),
		AccountName:   r.String("AccountName", "account_name", "accountName"),
		CategoryID:    r.Int("CategoryID", "category_id", "categoryId"),
		CategoryName:  r.String("CategoryName", "category_name", "categoryName"),
		CategoryKind:  model.CategoryKind(r.String("CategoryKind", "category_kind", "categoryKind")),
		Amount:        r.Decimal("Amount", "amount"),
		Description:   r.String("Description", "description"),
		Note:          r.String("Note", "note"),
		CreatedAt:     r.Time("CreatedAt", "created_at", "createdAt"),
	}
}

// MapTransactionPage normalizes a {data, total} listing. Without a total the
// page is taken to be the whole result.
func MapTransactionPage(r Record) model.TransactionPage {
	recs := r.Objects("Data", "data")
	page := model.TransactionPage{
		Rows:  make([]model.TransactionRow, 0, len(recs)),
		Total: r.Int("Total", "total"),
	}
	for _, rec := range recs {
		page.Rows = append(page.Rows, MapTransactionRow(rec))
	}
	if !r.Has("Total", "total") {
		page.Total = int64(len(page.Rows))
	}
	return page
}

// MapTransactionID reads the transaction id a write returns.
func MapTransactionID(r Record) int64 {
	return r.Int("TransactionID", "transaction_id", "transactionId")
}
