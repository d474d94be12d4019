package sqlite

import (
	"context"
	"fmt"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// ExpenseRepository implements ports.ExpenseRepository on the expenses table.
type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.conn.ExecContext(ctx,
		"INSERT INTO expenses (user_id, title, amount_cents, date) VALUES (?, ?, ?, ?)",
		e.UserID, e.Title, e.Amount.Cents(), toMillis(e.Date))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	e.ID = id
	return nil
}

func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Expense, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, amount_cents, date
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)
	for rows.Next() {
		var (
			e     domain.Expense
			cents int64
			date  int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &cents, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = domain.Money(cents)
		e.Date = fromMillis(date)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}
