package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

const (
	numFields    = 7
	colID        = 0
	colName      = 1
	colType      = 2
	colTypeLabel = 3
	colCurrency  = 4
	colActive    = 5
	colCreated   = 6
)

var header = []string{"id", "name", "type", "type_label", "currency", "is_active", "created_at"}

// WriteAccounts writes accounts as CSV with a header row.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(acct.ID, 10)
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colTypeLabel] = acct.Type.Label()
	row[colCurrency] = acct.Currency
	row[colActive] = strconv.FormatBool(acct.IsActive)
	if acct.CreatedAt != nil {
		row[colCreated] = acct.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}
