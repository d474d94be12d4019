package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

const expensesCollection = "expenses"

// ExpenseRepository implements ports.ExpenseRepository using MongoDB.
type ExpenseRepository struct {
	coll    *mongo.Collection
	ids     *sequence
	timeout time.Duration
}

func NewExpenseRepository(db *mongo.Database, timeout time.Duration) *ExpenseRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ExpenseRepository{
		coll:    db.Collection(expensesCollection),
		ids:     newSequence(db, expensesCollection),
		timeout: timeout,
	}
}

// expenseDocument stores the amount as integer cents.
type expenseDocument struct {
	ID          int64     `bson:"_id"`
	UserID      int64     `bson:"user_id"`
	Title       string    `bson:"title"`
	AmountCents int64     `bson:"amount_cents"`
	Date        time.Time `bson:"date"`
}

func toExpenseDocument(e *domain.Expense) expenseDocument {
	return expenseDocument{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		AmountCents: e.Amount.Cents(),
		Date:        e.Date.UTC(),
	}
}

func (d expenseDocument) toDomain() domain.Expense {
	return domain.Expense{
		ID:     d.ID,
		UserID: d.UserID,
		Title:  d.Title,
		Amount: domain.Money(d.AmountCents),
		Date:   d.Date.UTC(),
	}
}

// Create inserts a new expense document, assigning its ID.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	e.ID = id

	if _, err := r.coll.InsertOne(ctx, toExpenseDocument(e)); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// ListByUser returns the user's expenses, newest first, ties by ID ascending.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer cur.Close(ctx)

	var docs []expenseDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	out := make([]domain.Expense, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}
