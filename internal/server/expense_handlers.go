package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resolveapp/resolve/internal/calculator"
	"github.com/resolveapp/resolve/internal/middleware"
	"github.com/resolveapp/resolve/internal/service"
)

type splitEntry struct {
	User        string   `json:"user"`
	Percentage  *float64 `json:"percentage,omitempty"`
	ShareAmount *float64 `json:"shareAmount,omitempty"`
}

type createExpenseRequest struct {
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	PaidBy      string       `json:"paidBy"`
	Splits      []splitEntry `json:"splits"`
	GroupID     string       `json:"groupId"`
}

type expenseResponse struct {
	Expense expenseJSON `json:"expense"`
	Shares  []shareJSON `json:"shares"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	splits := make([]calculator.RawSplit, len(req.Splits))
	for i, entry := range req.Splits {
		splits[i] = calculator.RawSplit{
			Participant: entry.User,
			Percentage:  entry.Percentage,
			ShareAmount: entry.ShareAmount,
		}
	}

	in := service.CreateExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		Splits:      splits,
		GroupID:     req.GroupID,
	}
	expense, shares, err := s.expenses.CreateExpense(r.Context(), in, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, expenseResponse{
		Expense: toExpenseJSON(expense),
		Shares:  toShareJSONs(shares),
	})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, shares, err := s.expenses.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseResponse{
		Expense: toExpenseJSON(expense),
		Shares:  toShareJSONs(shares),
	})
}

type updateExpenseRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.UpdateDescription(r.Context(), chi.URLParam(r, "id"), req.Description, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.DeleteExpense(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
