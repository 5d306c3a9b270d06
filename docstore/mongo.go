package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the ones already used by the dashboard's data.
const (
	HistoryCollection    = "historialpedidos"
	PreferenceCollection = "preferencias"
	ReviewCollection     = "resenas"
)

var (
	_ HistoryStore    = (*mongoHistoryStore)(nil)
	_ PreferenceStore = (*mongoPreferenceStore)(nil)
	_ ReviewStore     = (*mongoReviewStore)(nil)
)

func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		History:     &mongoHistoryStore{coll: db.Collection(HistoryCollection)},
		Preferences: &mongoPreferenceStore{coll: db.Collection(PreferenceCollection)},
		Reviews:     &mongoReviewStore{coll: db.Collection(ReviewCollection)},
	}
}

// EnsureIndexes creates the unique keys and the review text index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		HistoryCollection: {
			{Keys: bson.D{{Key: "pedido_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "cliente_id", Value: 1}, {Key: "fecha_pedido", Value: -1}}},
		},
		PreferenceCollection: {
			{Keys: bson.D{{Key: "cliente_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ReviewCollection: {
			{Keys: bson.D{{Key: "comentario", Value: "text"}, {Key: "platos_consumidos", Value: "text"}}},
			{Keys: bson.D{{Key: "cliente_id", Value: 1}}},
		},
	}
	for name, specs := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// timeRange builds a half-open [from, to) condition; nil bounds are skipped.
func timeRange(from, to *time.Time) bson.M {
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lt"] = *to
	}
	return r
}
