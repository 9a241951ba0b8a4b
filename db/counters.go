package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextOrderSeq atomically increments and returns the per-day order
// sequence. The counter document is upserted on first use each day, so
// concurrent creators always observe distinct values.
func NextOrderSeq(ctx context.Context, day string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := CountersCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": "orders-" + day},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}
