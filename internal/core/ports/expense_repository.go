package ports

import (
	"context"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// ExpenseRepository stores expenses. Every read is filtered by owner.
type ExpenseRepository interface {
	// Create inserts e, assigning its ID.
	Create(ctx context.Context, e *domain.Expense) error
	// ListByUser returns the user's expenses newest first, ties broken by ID ascending.
	ListByUser(ctx context.Context, userID int64) ([]domain.Expense, error)
}
