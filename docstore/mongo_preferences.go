package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPreferenceStore struct {
	coll *mongo.Collection
}

func (s *mongoPreferenceStore) List(ctx context.Context) ([]models.Preference, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	prefs := []models.Preference{}
	if err := cur.All(ctx, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *mongoPreferenceStore) Get(ctx context.Context, customerID uint) (*models.Preference, error) {
	var p models.Preference
	if err := s.coll.FindOne(ctx, bson.M{"cliente_id": customerID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *mongoPreferenceStore) Upsert(ctx context.Context, customerID uint, patch PreferencePatch) (*models.Preference, error) {
	now := time.Now().UTC()
	set := bson.M{"ultima_actualizacion": now, "updatedAt": now}
	onInsert := bson.M{"createdAt": now}

	if patch.Intolerances != nil {
		set["intolerancias"] = *patch.Intolerances
	} else {
		onInsert["intolerancias"] = []string{}
	}
	if patch.PreferredStyles != nil {
		set["estilos_preferidos"] = *patch.PreferredStyles
	} else {
		onInsert["estilos_preferidos"] = []string{}
	}

	var p models.Preference
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"cliente_id": customerID},
		bson.M{"$set": set, "$setOnInsert": onInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *mongoPreferenceStore) Delete(ctx context.Context, customerID uint) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"cliente_id": customerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
