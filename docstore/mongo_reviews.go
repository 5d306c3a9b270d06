package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoReviewStore struct {
	coll *mongo.Collection
}

func reviewFilter(f ReviewFilter) bson.M {
	filter := bson.M{}
	if f.VisitType != "" {
		filter["tipo_visita"] = f.VisitType
	}
	if f.MinRating > 0 || f.MaxRating > 0 {
		rating := bson.M{}
		if f.MinRating > 0 {
			rating["$gte"] = f.MinRating
		}
		if f.MaxRating > 0 {
			rating["$lte"] = f.MaxRating
		}
		filter["calificacion"] = rating
	}
	if f.Dish != "" {
		filter["platos_consumidos"] = bson.M{"$in": bson.A{f.Dish}}
	}
	if f.CustomerID != nil {
		filter["cliente_id"] = *f.CustomerID
	}
	return filter
}

func (s *mongoReviewStore) List(ctx context.Context, f ReviewFilter) ([]models.Review, error) {
	cur, err := s.coll.Find(ctx, reviewFilter(f), options.Find().SetSort(bson.D{{Key: "fecha_resena", Value: -1}}))
	if err != nil {
		return nil, err
	}
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *mongoReviewStore) Search(ctx context.Context, query string) ([]models.Review, error) {
	score := bson.M{"score": bson.M{"$meta": "textScore"}}
	cur, err := s.coll.Find(ctx,
		bson.M{"$text": bson.M{"$search": query}},
		options.Find().SetProjection(score).SetSort(score),
	)
	if err != nil {
		return nil, err
	}
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *mongoReviewStore) Get(ctx context.Context, id string) (*models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var r models.Review
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *mongoReviewStore) Create(ctx context.Context, r *models.Review) error {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.ReviewedAt.IsZero() {
		r.ReviewedAt = now
	}
	_, err := s.coll.InsertOne(ctx, r)
	return err
}

func (s *mongoReviewStore) Update(ctx context.Context, r *models.Review) error {
	r.UpdatedAt = time.Now().UTC()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoReviewStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func ratingCount(n int) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$calificacion", n}}, 1, 0}}}
}

func (s *mongoReviewStore) Stats(ctx context.Context) (*ReviewStats, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"avg_calificacion": bson.M{"$avg": "$calificacion"},
			"count":            bson.M{"$sum": 1},
			"calificacion_1":   ratingCount(1),
			"calificacion_2":   ratingCount(2),
			"calificacion_3":   ratingCount(3),
			"calificacion_4":   ratingCount(4),
			"calificacion_5":   ratingCount(5),
		}}},
	})
	if err != nil {
		return nil, err
	}
	var general []RatingSummary
	if err := cur.All(ctx, &general); err != nil {
		return nil, err
	}

	cur, err = s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$tipo_visita", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	byType := []VisitTypeCount{}
	if err := cur.All(ctx, &byType); err != nil {
		return nil, err
	}

	stats := &ReviewStats{ByVisitType: byType}
	if len(general) > 0 {
		stats.General = general[0]
	}
	return stats, nil
}
