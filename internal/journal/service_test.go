package journal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerctl/internal/api"
	"github.com/cleared-dev/ledgerctl/internal/model"
)

type fakeClient struct {
	rows    []model.TransactionRow
	filters []api.TransactionFilter
	created []model.TransactionInput
	failAt  int // CreateTransaction call (1-based) that fails; 0 never
	listErr error
}

func (f *fakeClient) ListTransactions(_ context.Context, filter api.TransactionFilter) (model.TransactionPage, error) {
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return model.TransactionPage{}, f.listErr
	}
	start := (filter.Page - 1) * filter.PageSize
	end := min(start+filter.PageSize, len(f.rows))
	if start >= len(f.rows) {
		return model.TransactionPage{Total: int64(len(f.rows))}, nil
	}
	return model.TransactionPage{Rows: f.rows[start:end], Total: int64(len(f.rows))}, nil
}

func (f *fakeClient) CreateTransaction(_ context.Context, in model.TransactionInput) (model.TransactionRow, error) {
	f.created = append(f.created, in)
	if f.failAt == len(f.created) {
		return model.TransactionRow{}, errors.New("category not found")
	}
	return model.TransactionRow{
		TransactionID: int64(100 + len(f.created)),
		OccurredOn:    in.OccurredOn,
		AccountID:     in.AccountID,
		CategoryID:    in.CategoryID,
		Amount:        model.SignedAmount(in.Kind, in.Amount),
	}, nil
}

func manyRows(n int) []model.TransactionRow {
	rows := make([]model.TransactionRow, n)
	for i := range rows {
		rows[i] = model.TransactionRow{
			TransactionID: int64(i + 1),
			OccurredOn:    "2024-01-01",
			AccountID:     1,
			CategoryID:    2,
			Amount:        dec("-1"),
		}
	}
	return rows
}

func TestExport_Pages(t *testing.T) {
	fc := &fakeClient{rows: manyRows(5)}
	svc := NewService(fc, zerolog.Nop())
	svc.SetPageSize(2)

	var buf strings.Builder
	n, err := svc.Export(context.Background(), &buf, api.TransactionFilter{AccountID: 1, Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6)
	assert.Equal(t, Header, lines[0])

	require.Len(t, fc.filters, 3)
	for i, f := range fc.filters {
		assert.Equal(t, i+1, f.Page)
		assert.Equal(t, 2, f.PageSize)
		assert.Equal(t, int64(1), f.AccountID)
	}
}

func TestExport_Empty(t *testing.T) {
	fc := &fakeClient{}
	var buf strings.Builder
	n, err := NewService(fc, zerolog.Nop()).Export(context.Background(), &buf, api.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, Header+"\n", buf.String())
	assert.Len(t, fc.filters, 1)
}

func TestExport_Error(t *testing.T) {
	fc := &fakeClient{listErr: errors.New("offline")}
	_, err := NewService(fc, zerolog.Nop()).Export(context.Background(), &strings.Builder{}, api.TransactionFilter{})
	assert.EqualError(t, err, "fetching page 1: offline")
}

const importCSV = Header + "\n" +
	",2024-04-01,1,Checking,4,Salary,income,1000.00,April,\n" +
	",2024-04-02,1,Checking,9,Food,,-25.10,,lunch\n"

func TestImport(t *testing.T) {
	fc := &fakeClient{}
	res, err := NewService(fc, zerolog.Nop()).Import(context.Background(), strings.NewReader(importCSV), ImportOptions{
		Accounts: mockAccounts{1: true},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.Equal(t, int64(101), res.Created[0].TransactionID)
	assert.True(t, res.Created[1].Amount.Equal(dec("-25.10")))

	require.Len(t, fc.created, 2)
	assert.Equal(t, model.TransactionKindExpense, fc.created[1].Kind)
	assert.Equal(t, "lunch", fc.created[1].Note)
}

func TestImport_DryRun(t *testing.T) {
	fc := &fakeClient{}
	res, err := NewService(fc, zerolog.Nop()).Import(context.Background(), strings.NewReader(importCSV), ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Empty(t, fc.created)
}

func TestImport_InvalidSendsNothing(t *testing.T) {
	fc := &fakeClient{}
	_, err := NewService(fc, zerolog.Nop()).Import(context.Background(), strings.NewReader(importCSV), ImportOptions{
		Accounts: mockAccounts{2: true},
	})
	require.ErrorIs(t, err, ErrInvalidImport)
	assert.ErrorContains(t, err, "row 2: unknown account 1")
	assert.ErrorContains(t, err, "row 3: unknown account 1")
	assert.Empty(t, fc.created)
}

func TestImport_StopsOnServerError(t *testing.T) {
	fc := &fakeClient{failAt: 2}
	res, err := NewService(fc, zerolog.Nop()).Import(context.Background(), strings.NewReader(importCSV), ImportOptions{})
	assert.EqualError(t, err, "row 3: category not found")
	assert.Len(t, res.Created, 1)
}
