package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewTransactionService(storage.NewMemoryRepository(), nil)
	srv := NewServer(":0", svc)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeTx(t *testing.T, rr *httptest.ResponseRecorder) transactionResponse {
	t.Helper()
	var tx transactionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode transaction: %v (body=%s)", err, rr.Body.String())
	}
	return tx
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []transactionResponse {
	t.Helper()
	var txs []transactionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode list: %v (body=%s)", err, rr.Body.String())
	}
	return txs
}

func TestListEmptyReturnsArray(t *testing.T) {
	srv := newTestServer(t)
	rr := doJSON(t, srv, http.MethodGet, "/transactions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("empty list should be a JSON array, got %s", got)
	}
}

func TestCreateTransaction(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/transactions",
		`{"amount":50,"description":"Coffee","date":"2024-03-05","type":"EXPENSE"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body=%s)", rr.Code, rr.Body.String())
	}

	tx := decodeTx(t, rr)
	if tx.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if tx.Amount != 50 || tx.Description != "Coffee" || tx.Type != "EXPENSE" {
		t.Fatalf("returned record does not echo input: %+v", tx)
	}
	if !strings.HasPrefix(tx.Date, "2024-03-05T") {
		t.Fatalf("unexpected date: %s", tx.Date)
	}

	rr = doJSON(t, srv, http.MethodGet, "/transactions", "")
	txs := decodeList(t, rr)
	if len(txs) != 1 || txs[0].ID != tx.ID {
		t.Fatalf("created record not listed: %+v", txs)
	}
}

func TestCreateAcceptsISOTimestampAndCategory(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/transactions",
		`{"amount":12.34,"description":"Book","date":"2024-07-01T10:30:00.000Z","type":"INCOME","category":"Side gig"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body=%s)", rr.Code, rr.Body.String())
	}
	tx := decodeTx(t, rr)
	if tx.Category != "Side gig" || tx.Amount != 12.34 {
		t.Fatalf("unexpected record: %+v", tx)
	}
	if !strings.HasPrefix(tx.Date, "2024-07-01T00:00:00") {
		t.Fatalf("timestamp should collapse to the calendar date: %s", tx.Date)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	bodies := []string{
		`{"amount":0,"description":"x","date":"2024-01-01","type":"EXPENSE"}`,
		`{"amount":-5,"description":"x","date":"2024-01-01","type":"EXPENSE"}`,
		`{"description":"x","date":"2024-01-01","type":"EXPENSE"}`,
		`{"amount":5,"date":"2024-01-01","type":"EXPENSE"}`,
		`{"amount":5,"description":"   ","date":"2024-01-01","type":"EXPENSE"}`,
		`{"amount":5,"description":"` + strings.Repeat("x", 256) + `","date":"2024-01-01","type":"EXPENSE"}`,
		`{"amount":5,"description":"x","date":"not-a-date","type":"EXPENSE"}`,
		`{"amount":5,"description":"x","type":"EXPENSE"}`,
		`{"amount":5,"description":"x","date":"2024-01-01","type":"TRANSFER"}`,
		`{"amount":5,"description":"x","date":"2024-01-01"}`,
		`not json at all`,
	}
	for i, body := range bodies {
		rr := doJSON(t, srv, http.MethodPost, "/transactions", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("case %d expected 400, got %d (body=%s)", i, rr.Code, rr.Body.String())
		}
		var resp errorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp.Error == "" {
			t.Fatalf("case %d expected structured error body, got %s", i, rr.Body.String())
		}
	}

	// No partial persistence.
	rr := doJSON(t, srv, http.MethodGet, "/transactions", "")
	if txs := decodeList(t, rr); len(txs) != 0 {
		t.Fatalf("invalid creates must not persist, got %+v", txs)
	}
}

func TestListSortedByDateDesc(t *testing.T) {
	srv := newTestServer(t)

	dates := []string{"2024-01-10", "2024-06-01", "2023-12-31", "2024-03-15"}
	for _, d := range dates {
		rr := doJSON(t, srv, http.MethodPost, "/transactions",
			fmt.Sprintf(`{"amount":10,"description":"tx %s","date":"%s","type":"EXPENSE"}`, d, d))
		if rr.Code != http.StatusCreated {
			t.Fatalf("create %s: %d", d, rr.Code)
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/transactions", "")
	txs := decodeList(t, rr)
	want := []string{"2024-06-01", "2024-03-15", "2024-01-10", "2023-12-31"}
	if len(txs) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(txs))
	}
	for i, prefix := range want {
		if !strings.HasPrefix(txs[i].Date, prefix) {
			t.Fatalf("position %d: expected %s, got %s", i, prefix, txs[i].Date)
		}
	}
}

func TestUpdatePartial(t *testing.T) {
	srv := newTestServer(t)

	created := decodeTx(t, doJSON(t, srv, http.MethodPost, "/transactions",
		`{"amount":50,"description":"Coffee","date":"2024-03-05","type":"EXPENSE","category":"Food"}`))

	rr := doJSON(t, srv, http.MethodPut, "/transactions/"+created.ID, `{"description":"Groceries"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", rr.Code, rr.Body.String())
	}
	updated := decodeTx(t, rr)
	if updated.Description != "Groceries" {
		t.Fatalf("description not updated: %+v", updated)
	}
	if updated.Amount != created.Amount || updated.Date != created.Date ||
		updated.Type != created.Type || updated.Category != created.Category {
		t.Fatalf("unsupplied fields changed: before=%+v after=%+v", created, updated)
	}

	// Change visible in a subsequent list.
	txs := decodeList(t, doJSON(t, srv, http.MethodGet, "/transactions", ""))
	if txs[0].Description != "Groceries" {
		t.Fatalf("update not visible in list: %+v", txs[0])
	}
}

func TestUpdateErrors(t *testing.T) {
	srv := newTestServer(t)

	created := decodeTx(t, doJSON(t, srv, http.MethodPost, "/transactions",
		`{"amount":50,"description":"Coffee","date":"2024-03-05","type":"EXPENSE"}`))

	rr := doJSON(t, srv, http.MethodPut, "/transactions/missing", `{"description":"x"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPut, "/transactions/"+created.ID, `{"amount":0}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid amount, got %d", rr.Code)
	}

	// Rejected update leaves the record untouched.
	txs := decodeList(t, doJSON(t, srv, http.MethodGet, "/transactions", ""))
	if txs[0].Amount != 50 {
		t.Fatalf("rejected update mutated record: %+v", txs[0])
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv := newTestServer(t)

	created := decodeTx(t, doJSON(t, srv, http.MethodPost, "/transactions",
		`{"amount":50,"description":"Coffee","date":"2024-03-05","type":"EXPENSE"}`))
	other := decodeTx(t, doJSON(t, srv, http.MethodPost, "/transactions",
		`{"amount":20,"description":"Tea","date":"2024-03-06","type":"EXPENSE"}`))

	rr := doJSON(t, srv, http.MethodDelete, "/transactions/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp["message"] == "" {
		t.Fatalf("expected confirmation message, got %s", rr.Body.String())
	}

	txs := decodeList(t, doJSON(t, srv, http.MethodGet, "/transactions", ""))
	if len(txs) != 1 || txs[0].ID != other.ID {
		t.Fatalf("expected only %s left, got %+v", other.ID, txs)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/transactions/"+created.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for already-deleted id, got %d", rr.Code)
	}
	// Delete of an absent id does not affect other records.
	txs = decodeList(t, doJSON(t, srv, http.MethodGet, "/transactions", ""))
	if len(txs) != 1 {
		t.Fatalf("delete of absent id affected other records: %+v", txs)
	}
}

func TestMonthlySummary(t *testing.T) {
	srv := newTestServer(t)
	year := time.Now().Year()

	creates := []string{
		fmt.Sprintf(`{"amount":50,"description":"Coffee","date":"%d-03-05","type":"EXPENSE"}`, year),
		fmt.Sprintf(`{"amount":1000,"description":"Salary","date":"%d-03-01","type":"INCOME"}`, year),
		// Other years must not contribute.
		`{"amount":999,"description":"Old","date":"2000-03-05","type":"EXPENSE"}`,
	}
	for i, body := range creates {
		if rr := doJSON(t, srv, http.MethodPost, "/transactions", body); rr.Code != http.StatusCreated {
			t.Fatalf("create %d: %d (body=%s)", i, rr.Code, rr.Body.String())
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/transactions/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var buckets []monthBucketResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(buckets) != 12 || buckets[0].Month != "Jan" || buckets[11].Month != "Dec" {
		t.Fatalf("expected 12 ordered buckets, got %+v", buckets)
	}
	if buckets[2].Expenses != 50 || buckets[2].Income != 1000 {
		t.Fatalf("unexpected Mar bucket: %+v", buckets[2])
	}
}

// failingStore simulates a storage outage for every operation.
type failingStore struct{}

var errOutage = errors.New("storage outage")

func (failingStore) List(context.Context) ([]core.Transaction, error) { return nil, errOutage }
func (failingStore) Create(context.Context, core.Transaction) (core.Transaction, error) {
	return core.Transaction{}, errOutage
}
func (failingStore) Update(context.Context, string, core.TransactionPatch) (core.Transaction, error) {
	return core.Transaction{}, errOutage
}
func (failingStore) Delete(context.Context, string) error { return errOutage }
func (failingStore) MonthlySummary(context.Context, int) ([]core.MonthBucket, error) {
	return nil, errOutage
}

func TestStorageOutageMapsTo500(t *testing.T) {
	srv := NewServer(":0", failingStore{})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/transactions", ""},
		{http.MethodPost, "/transactions", `{"amount":5,"description":"x","date":"2024-01-01","type":"EXPENSE"}`},
		{http.MethodPut, "/transactions/some-id", `{"description":"x"}`},
		{http.MethodDelete, "/transactions/some-id", ""},
		{http.MethodGet, "/transactions/summary", ""},
	}
	for i, tc := range cases {
		rr := doJSON(t, srv, tc.method, tc.path, tc.body)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("case %d expected 500, got %d", i, rr.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp.Error == "" {
			t.Fatalf("case %d expected generic error body, got %s", i, rr.Body.String())
		}
		if strings.Contains(resp.Error, "outage") {
			t.Fatalf("case %d leaked internal error detail: %s", i, resp.Error)
		}
	}
}
