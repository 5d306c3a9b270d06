package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoHistoryStore struct {
	coll *mongo.Collection
}

func (s *mongoHistoryStore) InsertSnapshot(ctx context.Context, h *models.OrderHistory) error {
	now := time.Now().UTC()
	doc := *h
	doc.ID = primitive.NilObjectID
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"pedido_id": h.OrderID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("insert history snapshot for order %d: %w", h.OrderID, err)
	}
	return nil
}

func (s *mongoHistoryStore) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"pedido_id": orderID},
		bson.M{"$set": bson.M{"estado": status, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update history status for order %d: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoHistoryStore) FindByOrder(ctx context.Context, orderID uint) (*models.OrderHistory, error) {
	var h models.OrderHistory
	if err := s.coll.FindOne(ctx, bson.M{"pedido_id": orderID}).Decode(&h); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (s *mongoHistoryStore) FindByCustomer(ctx context.Context, customerID uint, f HistoryFilter) ([]models.OrderHistory, error) {
	filter := bson.M{"cliente_id": customerID}
	if f.DishName != "" {
		filter["detalles_platos.nombre_plato"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.DishName), Options: "i"}
	}
	if f.From != nil || f.To != nil {
		filter["fecha_pedido"] = timeRange(f.From, f.To)
	}

	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "fecha_pedido", Value: -1}}))
	if err != nil {
		return nil, err
	}
	history := []models.OrderHistory{}
	if err := cur.All(ctx, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *mongoHistoryStore) ReplaceLines(ctx context.Context, orderID uint, lines []models.HistoryLine) (*models.OrderHistory, error) {
	var h models.OrderHistory
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"pedido_id": orderID},
		bson.M{"$set": bson.M{"detalles_platos": lines, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&h)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (s *mongoHistoryStore) TopDishes(ctx context.Context, q DishStatsQuery) ([]DishStat, error) {
	match := bson.M{}
	if q.CustomerID != nil {
		match["cliente_id"] = *q.CustomerID
	}
	if q.From != nil || q.To != nil {
		match["fecha_pedido"] = timeRange(q.From, q.To)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$detalles_platos"}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$detalles_platos.nombre_plato",
			"nombre":   bson.M{"$first": "$detalles_platos.nombre_plato"},
			"cantidad": bson.M{"$sum": "$detalles_platos.cantidad"},
			"ingresos": bson.M{"$sum": bson.M{"$multiply": bson.A{"$detalles_platos.cantidad", "$detalles_platos.precio_unitario"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "cantidad", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if q.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: q.Limit}})
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	stats := []DishStat{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
