package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

const chaseStatement = chaseHeader +
	"DEBIT,01/03/2025,GITHUB *PRO SUBSCRIPTION,-4.00,ACH_DEBIT,9996.00,\n" +
	"DEBIT,01/07/2025,AWS EMEA,-23.17,ACH_DEBIT,9972.83,\n" +
	"CHECK,01/09/2025,CHECK 1042,-150.00,CHECK_PAID,9822.83,1042\n" +
	"CREDIT,01/15/2025,ACME CONSULTING INVOICE 1042,3500.00,ACH_CREDIT,13322.83,\n"

var opts = Options{AccountID: 1, IncomeCategoryID: 4, ExpenseCategoryID: 9}

func TestChaseParser_Parse(t *testing.T) {
	p := &ChaseParser{}
	inputs, err := p.Parse(strings.NewReader(chaseStatement), opts)
	require.NoError(t, err)
	require.Len(t, inputs, 4)

	// First: GITHUB subscription
	first := inputs[0]
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", first.Description)
	assert.Equal(t, model.TransactionKindExpense, first.Kind)
	assert.Equal(t, "4.00", first.Amount.StringFixed(2))
	assert.Equal(t, "2025-01-03", first.OccurredOn)
	assert.Equal(t, int64(1), first.AccountID)
	assert.Equal(t, int64(9), first.CategoryID)
	assert.Equal(t, "ACH_DEBIT", first.Note)

	assert.Equal(t, "CHECK_PAID #1042", inputs[2].Note)

	// Fourth: ACME income (positive)
	income := inputs[3]
	assert.Equal(t, model.TransactionKindIncome, income.Kind)
	assert.Equal(t, int64(4), income.CategoryID)
	assert.Equal(t, "3500.00", income.Amount.StringFixed(2))
}

func TestChaseParser_SignRoundTrip(t *testing.T) {
	inputs, err := (&ChaseParser{}).Parse(strings.NewReader(chaseStatement), opts)
	require.NoError(t, err)

	for _, in := range inputs {
		assert.False(t, in.Amount.IsNegative(), "magnitude only for %s", in.Description)
	}
	assert.Equal(t, "-23.17", model.SignedAmount(inputs[1].Kind, inputs[1].Amount).StringFixed(2))
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	inputs, err := p.Parse(strings.NewReader(chaseHeader), opts)
	require.NoError(t, err)
	assert.Nil(t, inputs)
}

func TestChaseParser_BadRows(t *testing.T) {
	tests := map[string]struct {
		row  string
		want string
	}{
		"bad date":     {"DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n", "row 2: parsing date"},
		"bad amount":   {"DEBIT,01/03/2025,desc,four,ACH_DEBIT,100.00,\n", "row 2: parsing amount"},
		"wrong fields": {"DEBIT,01/03/2025,desc\n", "reading chase CSV"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader+tt.row), opts)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, opts.Validate())

	err := Options{AccountID: 1}.Validate()
	assert.ErrorContains(t, err, "income category is required")
	assert.ErrorContains(t, err, "expense category is required")
	assert.NotContains(t, err.Error(), "account is required")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("chase"))
	assert.NotNil(t, r.Get("CHASE"))
	assert.Nil(t, r.Get("unknown"))
	assert.Equal(t, []string{"chase"}, r.Formats())

	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}
