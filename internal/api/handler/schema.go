package handler

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
)

// --- Request types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64" example:"alice"`
	Password string `json:"password" validate:"required,max=72" example:"secret123"`
}

// createExpenseRequest has no owner field on purpose: any userId sent by the
// client is dropped during binding.
type createExpenseRequest struct {
	Title  string      `json:"title" validate:"required,max=200" example:"Coffee"`
	Amount json.Number `json:"amount" swaggertype:"number" example:"4.50"`
	Date   string      `json:"date,omitempty" example:"2026-01-31"`
}

// --- Response types ---

type userResponse struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"alice"`
	CreatedAt time.Time `json:"createdAt"`
}

type expenseResponse struct {
	ID     int64        `json:"id" example:"1"`
	UserID int64        `json:"userId" example:"1"`
	Title  string       `json:"title" example:"Coffee"`
	Amount domain.Money `json:"amount" swaggertype:"number" example:"4.50"`
	Date   time.Time    `json:"date"`
}

type messageResponse struct {
	Message string `json:"message" example:"logged out"`
}

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error  string `json:"error" example:"authentication required"`
	Reason string `json:"reason" example:"unauthenticated"`
}

// --- Request → Service input ---

func toCreateExpenseInput(req createExpenseRequest) (ports.CreateExpenseInput, error) {
	amount, err := domain.ParseMoney(req.Amount.String())
	if err != nil {
		return ports.CreateExpenseInput{}, err
	}
	date, err := parseExpenseDate(req.Date)
	if err != nil {
		return ports.CreateExpenseInput{}, err
	}
	return ports.CreateExpenseInput{
		Title:  req.Title,
		Amount: amount,
		Date:   date,
	}, nil
}

// parseExpenseDate accepts an RFC 3339 timestamp or a plain calendar date,
// which is read as UTC midnight. Empty means "now".
func parseExpenseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	return nil, domain.NewValidationError("date", "must be an RFC 3339 timestamp or YYYY-MM-DD")
}

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:     e.ID,
		UserID: e.UserID,
		Title:  e.Title,
		Amount: e.Amount,
		Date:   e.Date.UTC(),
	}
}

func toExpenseResponses(items []domain.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(items))
	for i := range items {
		out = append(out, toExpenseResponse(&items[i]))
	}
	return out
}
