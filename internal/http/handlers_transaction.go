package http

import (
	"encoding/json"
	"net/http"
	"time"

	"fintrack/internal/core"
)

// transactionResponse is the JSON shape of a stored transaction.
type transactionResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Category    string  `json:"category,omitempty"`
}

// transactionRequest carries inbound editable fields. Pointers distinguish
// "absent" from "zero": create requires the core fields, update treats
// absent fields as "leave unchanged".
type transactionRequest struct {
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Type        *string  `json:"type"`
	Category    *string  `json:"category"`
}

func toResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount.Dollars(),
		Description: tx.Description,
		Date:        tx.Date.UTC().Format(time.RFC3339),
		Type:        string(tx.Type),
		Category:    tx.Category,
	}
}

func decodeTransactionRequest(w http.ResponseWriter, r *http.Request) (transactionRequest, error) {
	var req transactionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		return transactionRequest{}, err
	}
	return req, nil
}

// toCandidate builds a full candidate record for create. All core fields
// must be present; the service performs the authoritative validation.
func (req transactionRequest) toCandidate() (core.Transaction, error) {
	var tx core.Transaction

	if req.Amount == nil {
		return tx, core.ErrInvalidAmount
	}
	cents, err := core.DollarsToCents(*req.Amount)
	if err != nil {
		return tx, err
	}
	tx.Amount = core.Money{Cents: cents}

	if req.Description == nil {
		return tx, core.ErrEmptyDescription
	}
	tx.Description = sanitizeInput(*req.Description)

	if req.Date == nil {
		return tx, core.ErrInvalidDate
	}
	date, err := parseDate(*req.Date)
	if err != nil {
		return tx, err
	}
	tx.Date = date

	if req.Type == nil {
		return tx, core.ErrInvalidType
	}
	tx.Type = core.TransactionType(*req.Type)

	if req.Category != nil {
		tx.Category = sanitizeInput(*req.Category)
	}
	return tx, nil
}

// toPatch converts the supplied fields into a partial update.
func (req transactionRequest) toPatch() (core.TransactionPatch, error) {
	var patch core.TransactionPatch

	if req.Amount != nil {
		cents, err := core.DollarsToCents(*req.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = &core.Money{Cents: cents}
	}
	if req.Description != nil {
		desc := sanitizeInput(*req.Description)
		patch.Description = &desc
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	if req.Type != nil {
		typ := core.TransactionType(*req.Type)
		patch.Type = &typ
	}
	if req.Category != nil {
		cat := sanitizeInput(*req.Category)
		patch.Category = &cat
	}
	return patch, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.List(r.Context())
	if err != nil {
		writeOperationError(w, r, err, "Failed to fetch transactions")
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := decodeTransactionRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction data")
		return
	}

	candidate, err := req.toCandidate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction data")
		return
	}

	created, err := s.store.Create(r.Context(), candidate)
	if err != nil {
		writeOperationError(w, r, err, "Failed to create transaction")
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	req, err := decodeTransactionRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction data")
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction data")
		return
	}

	updated, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		writeOperationError(w, r, err, "Failed to update transaction")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.Delete(r.Context(), id); err != nil {
		writeOperationError(w, r, err, "Failed to delete transaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

// monthBucketResponse is one chart bucket of the current-year summary.
type monthBucketResponse struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()

	buckets, err := s.store.MonthlySummary(r.Context(), year)
	if err != nil {
		writeOperationError(w, r, err, "Failed to fetch transactions")
		return
	}

	out := make([]monthBucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = monthBucketResponse{
			Month:    b.Month,
			Income:   b.Income.Dollars(),
			Expenses: b.Expenses.Dollars(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
