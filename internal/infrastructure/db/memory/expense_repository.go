package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// ExpenseRepository keeps expenses in insertion order.
type ExpenseRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   []domain.Expense
}

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{}
}

func (r *ExpenseRepository) Create(_ context.Context, e *domain.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	r.rows = append(r.rows, *e)
	return nil
}

func (r *ExpenseRepository) ListByUser(_ context.Context, userID int64) ([]domain.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Expense, 0)
	for _, e := range r.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
