package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// sequence hands out monotonically increasing integer IDs per collection,
// stored as {_id: <name>, seq: <last>} documents.
type sequence struct {
	coll *mongo.Collection
	name string
}

func newSequence(db *mongo.Database, name string) *sequence {
	return &sequence{coll: db.Collection(countersCollection), name: name}
}

func (s *sequence) next(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	for attempt := 0; attempt < 2; attempt++ {
		err := s.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": s.name},
			bson.M{"$inc": bson.M{"seq": int64(1)}},
			opts,
		).Decode(&doc)
		if err == nil {
			return doc.Seq, nil
		}
		// Two first-time upserts can race on _id; the loser retries as an update.
		if !mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("next %s id: %w", s.name, err)
		}
	}
	return 0, fmt.Errorf("next %s id: upsert conflict", s.name)
}
