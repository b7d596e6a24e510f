package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/loveeee/ledger/internal/service"
)

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.callerID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	expenses, err := s.expenses.ListExpenses(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expenses": toExpenses(expenses)})
}

type createExpenseRequest struct {
	UserID       string     `json:"userId"`
	Title        string     `json:"title"`
	Amount       flexString `json:"amount"`
	Currency     string     `json:"currency"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	Date         *flexTime  `json:"date"`
	SplitType    string     `json:"splitType"`
	PaidBy       string     `json:"paidBy"`
	PaidByOther  flexString `json:"paidByOther"`
	PayerPercent flexString `json:"payerPercent"`

	// Receipt images are not stored; the field is accepted for compatibility.
	Receipt json.RawMessage `json:"receipt"`
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := s.callerID(w, r, req.UserID)
	if !ok {
		return
	}

	expense, err := s.expenses.CreateExpense(r.Context(), service.CreateExpenseInput{
		UserID:       userID,
		Title:        req.Title,
		Amount:       string(req.Amount),
		Currency:     req.Currency,
		Category:     req.Category,
		Description:  req.Description,
		Date:         req.Date.ptr(),
		SplitType:    req.SplitType,
		PaidBy:       req.PaidBy,
		PaidByOther:  string(req.PaidByOther),
		PayerPercent: string(req.PayerPercent),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msgExpenseCreated, "expense": toExpense(expense)})
}

type updateExpenseRequest struct {
	ExpenseID    string               `json:"expenseId"`
	UserID       string               `json:"userId"`
	Title        optional[string]     `json:"title"`
	Amount       optional[flexString] `json:"amount"`
	Currency     optional[string]     `json:"currency"`
	Category     optional[string]     `json:"category"`
	Description  optional[string]     `json:"description"`
	Date         optional[flexTime]   `json:"date"`
	SplitType    optional[string]     `json:"splitType"`
	PaidBy       optional[string]     `json:"paidBy"`
	PaidByOther  optional[flexString] `json:"paidByOther"`
	PayerPercent optional[flexString] `json:"payerPercent"`
	Version      optional[int64]      `json:"version"`
	Receipt      json.RawMessage      `json:"receipt"`
}

func (req *updateExpenseRequest) patch() service.ExpensePatch {
	p := service.ExpensePatch{
		Title:        req.Title.ptr(),
		Amount:       flexPtr(req.Amount),
		Currency:     req.Currency.ptr(),
		Category:     req.Category.ptr(),
		Description:  req.Description.ptr(),
		SplitType:    req.SplitType.ptr(),
		PaidBy:       req.PaidBy.ptr(),
		PaidByOther:  flexPtr(req.PaidByOther),
		PayerPercent: flexPtr(req.PayerPercent),
	}
	// The date cannot be cleared; null keeps it.
	if req.Date.Set && !req.Date.Null {
		p.Date = req.Date.Value.ptr()
	}
	if req.Version.Set && !req.Version.Null {
		p.Version = req.Version.ptr()
	}
	return p
}

func flexPtr(o optional[flexString]) *string {
	if !o.Set {
		return nil
	}
	v := string(o.Value)
	return &v
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := s.callerID(w, r, req.UserID)
	if !ok {
		return
	}

	expense, err := s.expenses.UpdateExpense(r.Context(), req.ExpenseID, userID, req.patch())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": msgExpenseUpdated, "expense": toExpense(expense)})
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, ok := s.callerID(w, r, query.Get("userId"))
	if !ok {
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), query.Get("expenseId"), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msgExpenseDeleted})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.callerID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	summary, err := s.expenses.Summary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"summary": toSummary(summary)})
}
