package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerctl/internal/auth"
	"github.com/cleared-dev/ledgerctl/internal/model"
	"github.com/cleared-dev/ledgerctl/internal/transport"
	"github.com/cleared-dev/ledgerctl/internal/wire"
)

// captured is one request seen by the fake server.
type captured struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]any
	Auth   string
}

type fakeServer struct {
	mu       sync.Mutex
	requests []captured
	mux      *http.ServeMux
}

func (f *fakeServer) handle(pattern, body string, status int) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := captured{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  map[string]string{},
		Auth:   r.Header.Get("Authorization"),
	}
	for k := range r.URL.Query() {
		c.Query[k] = r.URL.Query().Get(k)
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &c.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, c)
	f.mu.Unlock()
	f.mux.ServeHTTP(w, r)
}

func (f *fakeServer) seen() []captured {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]captured(nil), f.requests...)
}

func (f *fakeServer) last(t *testing.T) captured {
	t.Helper()
	reqs := f.seen()
	require.NotEmpty(t, reqs)
	return reqs[len(reqs)-1]
}

type harness struct {
	client *Client
	server *fakeServer
	tokens *auth.Storage
	logout *transport.LogoutBroadcaster
}

func newHarness(t *testing.T, ledgerID int64) *harness {
	t.Helper()
	fs := &fakeServer{mux: http.NewServeMux()}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)

	tokens := auth.NewStorage(auth.NewMemoryStore(), auth.NewMemoryStore())
	bus := transport.NewLogoutBroadcaster(zerolog.Nop())
	tc := transport.NewClient(transport.Config{BaseURL: srv.URL + "/api"}, tokens, bus, zerolog.Nop())
	return &harness{
		client: New(tc, tokens, ledgerID, zerolog.Nop()),
		server: fs,
		tokens: tokens,
		logout: bus,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var ctx = context.Background()

func TestAccounts(t *testing.T) {
	h := newHarness(t, 0)
	h.server.handle("GET /api/accounts", `[
		{"ID":1,"Name":"Wallet","Type":"cash","Currency":"USD","IsActive":true},
		{"id":2,"name":"Card","type":"liability","currency":"USD","is_active":false}
	]`, http.StatusOK)
	h.server.handle("POST /api/accounts", `{"ID":3,"Name":"Broker","Type":"investment","Currency":"USD","IsActive":true}`, http.StatusCreated)
	h.server.handle("PATCH /api/accounts/3", `{"ID":3,"Name":"Broker","Type":"investment","Currency":"USD","IsActive":false}`, http.StatusOK)
	h.server.handle("DELETE /api/accounts/3", ``, http.StatusNoContent)

	accounts, err := h.client.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Wallet", accounts[0].Name)
	assert.Equal(t, model.AccountTypeLiability, accounts[1].Type)
	assert.False(t, accounts[1].IsActive)

	created, err := h.client.CreateAccount(ctx, model.AccountInput{Name: "Broker", Type: model.AccountTypeInvestment, Currency: "USD", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, map[string]any{"name": "Broker", "type": "investment", "currency": "USD", "is_active": true}, h.server.last(t).Body)

	in := created.Input()
	in.IsActive = false
	updated, err := h.client.UpdateAccount(ctx, 3, in)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, http.MethodPatch, h.server.last(t).Method)

	require.NoError(t, h.client.DeleteAccount(ctx, 3))
	assert.Equal(t, "/api/accounts/3", h.server.last(t).Path)
}

func TestAccounts_ServerErrorVerbatim(t *testing.T) {
	h := newHarness(t, 0)
	h.server.handle("DELETE /api/accounts/1", `{"error":"account has transactions"}`, http.StatusBadRequest)

	err := h.client.DeleteAccount(ctx, 1)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "account has transactions", err.Error())
}

func TestCategories_ListShapes(t *testing.T) {
	for _, body := range []string{
		`[{"ID":5,"Name":"Food","Kind":"expense","ParentID":0}]`,
		`{"data":[{"id":5,"name":"Food","kind":"expense","parent_id":null}]}`,
		`{"list":[{"ID":5,"Name":"Food","Kind":"expense"}]}`,
		`{"categories":[{"ID":5,"Name":"Food","Kind":"expense","Parent":null}]}`,
	} {
		h := newHarness(t, 0)
		h.server.handle("GET /api/categories", body, http.StatusOK)

		cats, err := h.client.ListCategories(ctx)
		require.NoError(t, err, body)
		assert.Equal(t, []model.Category{{ID: 5, Name: "Food", Kind: model.CategoryKindExpense}}, cats, body)
	}

	for _, body := range []string{`null`, `{}`} {
		h := newHarness(t, 0)
		h.server.handle("GET /api/categories", body, http.StatusOK)

		cats, err := h.client.ListCategories(ctx)
		require.NoError(t, err, body)
		assert.Empty(t, cats, body)
	}
}

func TestCategories_UnparseableBody(t *testing.T) {
	for _, body := range []string{`{"data":[`, `<html>Bad Gateway</html>`} {
		h := newHarness(t, 0)
		h.server.handle("GET /api/categories", body, http.StatusOK)
		var logs bytes.Buffer
		client := New(h.client.t, h.tokens, 0, zerolog.New(&logs))

		cats, err := client.ListCategories(ctx)
		require.NoError(t, err, body)
		assert.NotNil(t, cats, body)
		assert.Empty(t, cats, body)
		assert.Contains(t, logs.String(), `"level":"warn"`, body)
		assert.Contains(t, logs.String(), "Unparseable category listing", body)
	}
}

func TestCategories_Create(t *testing.T) {
	h := newHarness(t, 2)
	h.server.handle("POST /api/categories", `{"ID":9,"Name":"Dining","Kind":"expense","Parent":{"ID":5,"Name":"Food"}}`, http.StatusOK)

	parent := int64(5)
	c, err := h.client.CreateCategory(ctx, model.CategoryInput{Name: "Dining", Kind: model.CategoryKindExpense, ParentID: &parent})
	require.NoError(t, err)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, int64(5), *c.ParentID)

	body := h.server.last(t).Body
	assert.Equal(t, float64(2), body["ledger_id"])
	assert.Equal(t, float64(5), body["parent_id"])

	_, err = h.client.CreateCategory(ctx, model.CategoryInput{Name: "Salary", Kind: model.CategoryKindIncome})
	require.NoError(t, err)
	body = h.server.last(t).Body
	v, present := body["parent_id"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestTransactions(t *testing.T) {
	h := newHarness(t, 1)
	h.server.handle("GET /api/transactions", `{"data":[{"transaction_id":7,"line_id":8,"occurred_on":"2024-02-01","amount":-12.5,"category_kind":"expense"}],"total":41}`, http.StatusOK)
	h.server.handle("POST /api/transactions", `{"transaction_id":7,"line_id":8,"occurred_on":"2024-02-01","amount":-12.5}`, http.StatusCreated)
	h.server.handle("GET /api/transactions/7", `{"transaction_id":7,"amount":-12.5}`, http.StatusOK)
	h.server.handle("PATCH /api/transactions/7", `{"success":true}`, http.StatusOK)
	h.server.handle("POST /api/transfers", `{"transaction_id":99}`, http.StatusCreated)

	page, err := h.client.ListTransactions(ctx, TransactionFilter{
		AccountID: 3,
		Kind:      model.TransactionKindExpense,
		DateFrom:  "2024-01-01",
		DateTo:    "2024-12-31",
		Page:      2,
		PageSize:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), page.Total)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, map[string]string{
		"ledger_id": "1", "account_id": "3", "kind": "expense",
		"date_from": "2024-01-01", "date_to": "2024-12-31", "page": "2", "page_size": "20",
	}, h.server.last(t).Query)

	row, err := h.client.CreateTransaction(ctx, model.TransactionInput{
		Kind: model.TransactionKindExpense, OccurredOn: "2024-02-01", AccountID: 1, CategoryID: 4, Amount: dec("12.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), row.TransactionID)
	assert.Equal(t, -12.5, h.server.last(t).Body["amount"])

	got, err := h.client.GetTransaction(ctx, 7)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("-12.5")))

	require.NoError(t, h.client.UpdateTransaction(ctx, 7, model.TransactionInput{Kind: model.TransactionKindIncome, Amount: dec("-3")}))
	assert.Equal(t, float64(3), h.server.last(t).Body["amount"])

	id, err := h.client.CreateTransfer(ctx, model.Transfer{OccurredOn: "2024-02-02", FromAccountID: 1, ToAccountID: 2, Amount: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
	assert.Equal(t, float64(1), h.server.last(t).Body["ledger_id"])
}

func TestSnapshots(t *testing.T) {
	h := newHarness(t, 0)
	h.server.handle("GET /api/account-snapshots", `[{"ID":1,"AccountID":3,"AsOf":"2024-03-31T00:00:00Z","Amount":"100.25"}]`, http.StatusOK)
	h.server.handle("PATCH /api/account-snapshots/1", `{"ID":1,"AccountID":3,"AsOf":"2024-03-31","Amount":110,"Note":"fixed"}`, http.StatusOK)

	snaps, err := h.client.ListSnapshots(ctx, SnapshotFilter{AccountID: 3})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2024-03-31", snaps[0].AsOf)
	assert.True(t, snaps[0].Amount.Equal(dec("100.25")))
	assert.Equal(t, map[string]string{"account_id": "3"}, h.server.last(t).Query)

	note := "fixed"
	amount := dec("110")
	s, err := h.client.UpdateSnapshot(ctx, 1, wire.SnapshotPatch{Amount: &amount, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "fixed", s.Note)
	assert.Equal(t, map[string]any{"amount": float64(110), "note": "fixed"}, h.server.last(t).Body)
}

func TestBalanceSheet(t *testing.T) {
	h := newHarness(t, 4)
	h.server.handle("GET /api/reports/balance-sheet", `{"ledger_id":4,"as_of":"2024-06-30","totals":{"assets":10,"liabilities":4,"net_worth":6},"groups":[]}`, http.StatusOK)

	bs, err := h.client.BalanceSheet(ctx, 0, "2024-06-30")
	require.NoError(t, err)
	assert.True(t, bs.Totals.NetWorth.Equal(dec("6")))
	assert.Equal(t, map[string]string{"ledger_id": "4", "as_of": "2024-06-30"}, h.server.last(t).Query)
}

func TestLoginLogout(t *testing.T) {
	h := newHarness(t, 0)
	h.server.handle("POST /api/auth/login", `{"token":"jwt-1","expires_at":"2099-01-01T00:00:00Z"}`, http.StatusOK)
	h.server.handle("GET /api/auth/me", `{"username":"ana"}`, http.StatusOK)

	tok, err := h.client.Login(ctx, "ana", "pw", true)
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", tok.Value)
	require.NotNil(t, tok.ExpiresAt)
	assert.Equal(t, map[string]any{"username": "ana", "password": "pw", "remember": true}, h.server.last(t).Body)

	me, err := h.client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)
	assert.Equal(t, "Bearer jwt-1", h.server.last(t).Auth)

	require.NoError(t, h.client.Logout())
	_, err = h.client.Me(ctx)
	require.NoError(t, err)
	assert.Empty(t, h.server.last(t).Auth)
}

func TestUnauthorizedEndsSession(t *testing.T) {
	h := newHarness(t, 0)
	h.server.handle("GET /api/accounts", `{"error":"token expired"}`, http.StatusUnauthorized)
	require.NoError(t, h.tokens.Save(auth.Token{Value: "stale"}, true))

	events := h.logout.Subscribe()
	defer h.logout.Unsubscribe(events)

	_, err := h.client.ListAccounts(ctx)
	require.ErrorIs(t, err, transport.ErrUnauthorized)

	v, err := h.tokens.Current()
	require.NoError(t, err)
	assert.Empty(t, v)
	assert.Len(t, events, 1)
}
