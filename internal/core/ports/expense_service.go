package ports

import (
	"context"
	"time"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// CreateExpenseInput carries the client-controlled fields of a new expense.
// The owner is never part of it.
type CreateExpenseInput struct {
	Title  string
	Amount domain.Money
	Date   *time.Time // optional, defaults to now
}

// ExpenseService exposes expense use cases scoped to an authenticated user.
type ExpenseService interface {
	ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error)
	CreateExpense(ctx context.Context, userID int64, input CreateExpenseInput) (*domain.Expense, error)
}
