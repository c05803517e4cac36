package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
	chaseColCheck   = 6
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. Debits become expenses and credits income; the
// amount keeps only its magnitude.
func (p *ChaseParser) Parse(r io.Reader, opts Options) ([]model.TransactionInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var inputs []model.TransactionInput
	for i, rec := range records[1:] {
		in, err := parseChaseRow(rec, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func parseChaseRow(rec []string, opts Options) (model.TransactionInput, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.TransactionInput{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.TransactionInput{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	kind := model.KindOf(amount)
	return model.TransactionInput{
		Kind:        kind,
		OccurredOn:  date.Format(model.DateLayout),
		AccountID:   opts.AccountID,
		CategoryID:  opts.category(kind),
		Amount:      amount.Abs(),
		Description: strings.TrimSpace(rec[chaseColDesc]),
		Note:        chaseNote(rec[chaseColType], rec[chaseColCheck]),
	}, nil
}

// chaseNote keeps the statement's transaction type and check number, e.g.
// "ACH_DEBIT" or "CHECK_PAID #1042".
func chaseNote(typ, check string) string {
	note := strings.TrimSpace(typ)
	if check = strings.TrimSpace(check); check != "" {
		note = strings.TrimSpace(note + " #" + check)
	}
	return note
}
