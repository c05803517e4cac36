package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// Header is the CSV header for exported transaction rows.
const Header = "transaction_id,occurred_on,account_id,account_name,category_id,category_name,kind,amount,description,note"

const (
	numFields   = 10
	colTxID     = 0
	colDate     = 1
	colAcctID   = 2
	colAcctName = 3
	colCatID    = 4
	colCatName  = 5
	colKind     = 6
	colAmount   = 7
	colDesc     = 8
	colNote     = 9
)

// ReadInputs reads exported rows back as transaction inputs. The id and
// name columns are ignored; the server assigns ids on import.
func ReadInputs(r io.Reader) ([]model.TransactionInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var inputs []model.TransactionInput
	for i, rec := range records[1:] {
		in, err := UnmarshalInput(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// WriteRows writes rows to w, including the header.
func WriteRows(w io.Writer, rows []model.TransactionRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendRows writes rows to w without a header.
func AppendRows(w io.Writer, rows []model.TransactionRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a TransactionRow to a CSV row. The amount keeps its
// sign; kind is derived from it.
func MarshalRow(row model.TransactionRow) []string {
	rec := make([]string, numFields)
	rec[colTxID] = strconv.FormatInt(row.TransactionID, 10)
	rec[colDate] = row.OccurredOn
	rec[colAcctID] = strconv.FormatInt(row.AccountID, 10)
	rec[colAcctName] = row.AccountName
	if row.CategoryID != 0 {
		rec[colCatID] = strconv.FormatInt(row.CategoryID, 10)
	}
	rec[colCatName] = row.CategoryName
	rec[colKind] = string(model.KindOf(row.Amount))
	rec[colAmount] = row.Amount.StringFixed(2)
	rec[colDesc] = row.Description
	rec[colNote] = row.Note
	return rec
}

// UnmarshalInput converts a CSV row to a TransactionInput. An empty kind is
// taken from the amount's sign; the amount itself becomes a magnitude.
func UnmarshalInput(record []string) (model.TransactionInput, error) {
	if len(record) != numFields {
		return model.TransactionInput{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	accountID, err := strconv.ParseInt(record[colAcctID], 10, 64)
	if err != nil {
		return model.TransactionInput{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	var categoryID int64
	if record[colCatID] != "" {
		categoryID, err = strconv.ParseInt(record[colCatID], 10, 64)
		if err != nil {
			return model.TransactionInput{}, fmt.Errorf("parsing category_id %q: %w", record[colCatID], err)
		}
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.TransactionInput{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	kind := model.TransactionKind(record[colKind])
	if kind == "" {
		kind = model.KindOf(amount)
	}

	return model.TransactionInput{
		Kind:        kind,
		OccurredOn:  record[colDate],
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      amount.Abs(),
		Description: record[colDesc],
		Note:        record[colNote],
	}, nil
}
