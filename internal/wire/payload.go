package wire

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

func init() {
	// The server binds amounts into float64 and rejects quoted numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// AccountPayload is the body of POST/PATCH /accounts.
type AccountPayload struct {
	LedgerID int64  `json:"ledger_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	Currency string `json:"currency,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// ToAccountPayload maps an account form to its request body.
func ToAccountPayload(in model.AccountInput) AccountPayload {
	active := in.IsActive
	return AccountPayload{
		Name:     in.Name,
		Type:     string(in.Type),
		Currency: in.Currency,
		IsActive: &active,
	}
}

// CategoryPayload is the body of POST/PATCH /categories. A nil ParentID is
// sent as null, making the category a root.
type CategoryPayload struct {
	LedgerID int64  `json:"ledger_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind,omitempty"`
	ParentID *int64 `json:"parent_id"`
}

// ToCategoryPayload maps a category form to its request body.
func ToCategoryPayload(in model.CategoryInput) CategoryPayload {
	return CategoryPayload{
		Name:     in.Name,
		Kind:     string(in.Kind),
		ParentID: model.NormalizeParentID(in.ParentID),
	}
}

// TransactionPayload is the body of POST/PATCH /transactions. Amount is
// signed.
type TransactionPayload struct {
	LedgerID    int64            `json:"ledger_id,omitempty"`
	OccurredOn  string           `json:"occurred_on,omitempty"`
	AccountID   int64            `json:"account_id,omitempty"`
	CategoryID  int64            `json:"category_id,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description string           `json:"description,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// ToTransactionPayload maps a transaction form to its request body. This is
// the only place a transaction amount gets its sign: income is positive,
// expense negative, whatever the sign typed in. Description and note are
// trimmed and dropped when blank.
func ToTransactionPayload(in model.TransactionInput) TransactionPayload {
	amount := model.SignedAmount(in.Kind, in.Amount)
	return TransactionPayload{
		OccurredOn:  in.OccurredOn,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		Amount:      &amount,
		Description: strings.TrimSpace(in.Description),
		Note:        strings.TrimSpace(in.Note),
	}
}

// TransferPayload is the body of POST /transfers.
type TransferPayload struct {
	LedgerID      int64           `json:"ledger_id,omitempty"`
	OccurredOn    string          `json:"occurred_on"`
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// ToTransferPayload maps a transfer to its request body.
func ToTransferPayload(t model.Transfer) TransferPayload {
	return TransferPayload{
		LedgerID:      t.LedgerID,
		OccurredOn:    t.OccurredOn,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Description:   strings.TrimSpace(t.Description),
		Note:          strings.TrimSpace(t.Note),
	}
}

// SnapshotPayload is the body of POST /account-snapshots.
type SnapshotPayload struct {
	LedgerID  int64           `json:"ledger_id,omitempty"`
	AccountID int64           `json:"account_id"`
	AsOf      string          `json:"as_of"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
}

// ToSnapshotPayload maps a snapshot form to its request body.
func ToSnapshotPayload(in model.SnapshotInput) SnapshotPayload {
	return SnapshotPayload{
		AccountID: in.AccountID,
		AsOf:      in.AsOf,
		Amount:    in.Amount,
		Note:      in.Note,
	}
}

// SnapshotPatch is the body of PATCH /account-snapshots/:id. Only the date,
// amount and note of a snapshot can change.
type SnapshotPatch struct {
	AsOf   *string          `json:"as_of,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Note   *string          `json:"note,omitempty"`
}

// BuyPayload is the body of POST/PATCH /investments/buys.
type BuyPayload struct {
	LedgerID            int64           `json:"ledger_id,omitempty"`
	OccurredOn          string          `json:"occurred_on"`
	SecurityID          int64           `json:"security_id,omitempty"`
	SecurityTicker      string          `json:"security_ticker,omitempty"`
	SecurityName        string          `json:"security_name,omitempty"`
	CashAccountID       int64           `json:"cash_account_id"`
	InvestmentAccountID int64           `json:"investment_account_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	Price               decimal.Decimal `json:"price"`
	Fee                 decimal.Decimal `json:"fee"`
	FeeCategoryID       *int64          `json:"fee_category_id,omitempty"`
	Tax                 decimal.Decimal `json:"tax"`
	TaxCategoryID       *int64          `json:"tax_category_id,omitempty"`
	Description         string          `json:"description,omitempty"`
	Note                string          `json:"note,omitempty"`
}

// ToBuyPayload maps a buy to its request body.
func ToBuyPayload(b model.Buy) BuyPayload {
	return BuyPayload{
		LedgerID:            b.LedgerID,
		OccurredOn:          b.OccurredOn,
		SecurityID:          b.SecurityID,
		SecurityTicker:      strings.TrimSpace(b.SecurityTicker),
		SecurityName:        strings.TrimSpace(b.SecurityName),
		CashAccountID:       b.CashAccountID,
		InvestmentAccountID: b.InvestmentAccountID,
		Quantity:            b.Quantity,
		Price:               b.Price,
		Fee:                 b.Fee,
		FeeCategoryID:       b.FeeCategoryID,
		Tax:                 b.Tax,
		TaxCategoryID:       b.TaxCategoryID,
		Description:         strings.TrimSpace(b.Description),
		Note:                strings.TrimSpace(b.Note),
	}
}

// AllocationPayload is one entry of SalePayload.Allocations.
type AllocationPayload struct {
	BuyLotID int64           `json:"buy_lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SalePayload is the body of POST /investments/sales.
type SalePayload struct {
	LedgerID            int64               `json:"ledger_id,omitempty"`
	OccurredOn          string              `json:"occurred_on"`
	SecurityID          int64               `json:"security_id"`
	CashAccountID       int64               `json:"cash_account_id"`
	InvestmentAccountID int64               `json:"investment_account_id"`
	Quantity            decimal.Decimal     `json:"quantity"`
	Price               decimal.Decimal     `json:"price"`
	Fee                 decimal.Decimal     `json:"fee"`
	FeeCategoryID       *int64              `json:"fee_category_id,omitempty"`
	Tax                 decimal.Decimal     `json:"tax"`
	TaxCategoryID       *int64              `json:"tax_category_id,omitempty"`
	Description         string              `json:"description,omitempty"`
	Note                string              `json:"note,omitempty"`
	Allocations         []AllocationPayload `json:"allocations"`
}

// ToSalePayload maps a sale to its request body.
func ToSalePayload(s model.Sale) SalePayload {
	allocs := make([]AllocationPayload, len(s.Allocations))
	for i, a := range s.Allocations {
		allocs[i] = AllocationPayload{BuyLotID: a.LotID, Quantity: a.Quantity}
	}
	return SalePayload{
		LedgerID:            s.LedgerID,
		OccurredOn:          s.OccurredOn,
		SecurityID:          s.SecurityID,
		CashAccountID:       s.CashAccountID,
		InvestmentAccountID: s.InvestmentAccountID,
		Quantity:            s.Quantity,
		Price:               s.Price,
		Fee:                 s.Fee,
		FeeCategoryID:       s.FeeCategoryID,
		Tax:                 s.Tax,
		TaxCategoryID:       s.TaxCategoryID,
		Description:         strings.TrimSpace(s.Description),
		Note:                strings.TrimSpace(s.Note),
		Allocations:         allocs,
	}
}
