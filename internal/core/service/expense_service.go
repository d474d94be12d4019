package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
)

// ExpenseService is the access-controlled data layer: every operation takes
// the resolved caller's ID and touches only that user's records.
type ExpenseService struct {
	repo ports.ExpenseRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewExpenseService(repo ports.ExpenseRepository, log zerolog.Logger) *ExpenseService {
	return &ExpenseService{repo: repo, log: log, now: time.Now}
}

// ListExpenses returns the caller's expenses newest first. The result is
// never nil.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error) {
	if userID <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, unavailable("list expenses", err)
	}
	if items == nil {
		items = []domain.Expense{}
	}
	return items, nil
}

// CreateExpense stores a new expense owned by userID. The date defaults to
// the creation instant.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID int64, input ports.CreateExpenseInput) (*domain.Expense, error) {
	if userID <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	date := s.now()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}

	e := &domain.Expense{
		UserID: userID,
		Title:  strings.TrimSpace(input.Title),
		Amount: input.Amount,
		Date:   domain.NormalizeTime(date),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to create expense")
		return nil, unavailable("create expense", err)
	}

	s.log.Info().
		Int64("user_id", userID).
		Int64("expense_id", e.ID).
		Int64("amount_cents", e.Amount.Cents()).
		Msg("expense created")
	return e, nil
}
