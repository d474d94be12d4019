package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/db/memory"
)

type brokenExpenseRepo struct{}

func (brokenExpenseRepo) Create(context.Context, *domain.Expense) error { return errDriver }
func (brokenExpenseRepo) ListByUser(context.Context, int64) ([]domain.Expense, error) {
	return nil, errDriver
}

func newTestExpenseService(now time.Time) *ExpenseService {
	svc := NewExpenseService(memory.NewExpenseRepository(), zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func TestCreateExpense_OwnerIsCaller(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 5, 6, 789_123_456, time.UTC)
	svc := newTestExpenseService(now)

	e, err := svc.CreateExpense(context.Background(), 7, ports.CreateExpenseInput{Title: " Coffee ", Amount: mustMoney(t, "4.50")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.UserID != 7 || e.ID <= 0 {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if e.Title != "Coffee" {
		t.Fatalf("expected trimmed title, got %q", e.Title)
	}
	if !e.Date.Equal(now.Truncate(time.Millisecond)) {
		t.Fatalf("expected default date %v, got %v", now, e.Date)
	}
}

func TestCreateExpense_AmountBoundaries(t *testing.T) {
	svc := newTestExpenseService(time.Now())

	for _, amount := range []string{"0", "0.00", "-1", "-0.01"} {
		_, err := svc.CreateExpense(context.Background(), 1, ports.CreateExpenseInput{Title: "x", Amount: mustMoney(t, amount)})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("amount %s: expected ErrValidation, got %v", amount, err)
		}
	}

	e, err := svc.CreateExpense(context.Background(), 1, ports.CreateExpenseInput{Title: "x", Amount: mustMoney(t, "0.01")})
	if err != nil {
		t.Fatalf("amount 0.01: %v", err)
	}
	if e.Amount.Cents() != 1 {
		t.Fatalf("expected 1 cent, got %d", e.Amount.Cents())
	}
}

func TestCreateExpense_EmptyTitle(t *testing.T) {
	svc := newTestExpenseService(time.Now())

	_, err := svc.CreateExpense(context.Background(), 1, ports.CreateExpenseInput{Title: "   ", Amount: 100})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "title" {
		t.Fatalf("expected title ValidationError, got %v", err)
	}
}

func TestCreateExpense_RoundTripIsExact(t *testing.T) {
	svc := newTestExpenseService(time.Now())
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, 1, ports.CreateExpenseInput{Title: "Book", Amount: mustMoney(t, "19.99")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	items, err := svc.ListExpenses(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Amount.String() != "19.99" || items[0].Amount.Cents() != 1999 {
		t.Fatalf("unexpected round trip: %+v", items)
	}
}

func TestListExpenses_IsolatedPerUser(t *testing.T) {
	svc := newTestExpenseService(time.Now())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateExpense(ctx, 1, ports.CreateExpenseInput{Title: "alice", Amount: 100}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.CreateExpense(ctx, 2, ports.CreateExpenseInput{Title: "bob", Amount: 100}); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.ListExpenses(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].UserID != 2 {
		t.Fatalf("bob sees foreign expenses: %+v", items)
	}

	empty, err := svc.ListExpenses(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected an empty, non-nil slice, got %#v", empty)
	}
}

func TestListExpenses_NewestFirstStableTies(t *testing.T) {
	svc := newTestExpenseService(time.Now())
	ctx := context.Background()

	day := func(d int) *time.Time {
		ts := time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	inputs := []ports.CreateExpenseInput{
		{Title: "a", Amount: 1, Date: day(1)},
		{Title: "b", Amount: 1, Date: day(3)},
		{Title: "c", Amount: 1, Date: day(2)},
		{Title: "d", Amount: 1, Date: day(3)},
	}
	for _, in := range inputs {
		if _, err := svc.CreateExpense(ctx, 1, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, err := svc.ListExpenses(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got string
	for _, e := range items {
		got += e.Title
	}
	if got != "bdca" {
		t.Fatalf("expected order bdca, got %s", got)
	}
}

func TestExpenseService_RequiresUser(t *testing.T) {
	svc := newTestExpenseService(time.Now())

	if _, err := svc.ListExpenses(context.Background(), 0); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.CreateExpense(context.Background(), 0, ports.CreateExpenseInput{Title: "x", Amount: 1}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestExpenseService_StorageFailure(t *testing.T) {
	svc := NewExpenseService(brokenExpenseRepo{}, zerolog.Nop())

	if _, err := svc.ListExpenses(context.Background(), 1); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	_, err := svc.CreateExpense(context.Background(), 1, ports.CreateExpenseInput{Title: "x", Amount: 1})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("a failed insert must not look like success, got %v", err)
	}
}
