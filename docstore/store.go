// Package docstore holds the document-store side of the back office: order
// history snapshots, customer preferences and reviews. Every store has a
// MongoDB implementation and an in-memory one.
package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
)

var ErrNotFound = errors.New("document not found")

// HistoryFilter narrows a customer's history. To is exclusive.
type HistoryFilter struct {
	DishName string
	From     *time.Time
	To       *time.Time
}

// DishStatsQuery aggregates history lines by dish name.
type DishStatsQuery struct {
	CustomerID *uint
	From       *time.Time
	To         *time.Time
	Limit      int
}

type DishStat struct {
	Name     string  `bson:"nombre" json:"nombre"`
	Quantity int     `bson:"cantidad" json:"cantidad"`
	Revenue  float64 `bson:"ingresos" json:"ingresos"`
}

type HistoryStore interface {
	// InsertSnapshot stores the snapshot unless one already exists for the order.
	InsertSnapshot(ctx context.Context, h *models.OrderHistory) error
	UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) error
	FindByOrder(ctx context.Context, orderID uint) (*models.OrderHistory, error)
	FindByCustomer(ctx context.Context, customerID uint, f HistoryFilter) ([]models.OrderHistory, error)
	ReplaceLines(ctx context.Context, orderID uint, lines []models.HistoryLine) (*models.OrderHistory, error)
	TopDishes(ctx context.Context, q DishStatsQuery) ([]DishStat, error)
}

// PreferencePatch replaces only the lists that are non-nil.
type PreferencePatch struct {
	Intolerances    *[]string
	PreferredStyles *[]string
}

type PreferenceStore interface {
	List(ctx context.Context) ([]models.Preference, error)
	Get(ctx context.Context, customerID uint) (*models.Preference, error)
	Upsert(ctx context.Context, customerID uint, patch PreferencePatch) (*models.Preference, error)
	Delete(ctx context.Context, customerID uint) error
}

type ReviewFilter struct {
	VisitType  models.VisitType
	MinRating  int
	MaxRating  int
	Dish       string
	CustomerID *uint
}

type RatingSummary struct {
	Average float64 `bson:"avg_calificacion" json:"avg_calificacion"`
	Count   int     `bson:"count" json:"count"`
	Rating1 int     `bson:"calificacion_1" json:"calificacion_1"`
	Rating2 int     `bson:"calificacion_2" json:"calificacion_2"`
	Rating3 int     `bson:"calificacion_3" json:"calificacion_3"`
	Rating4 int     `bson:"calificacion_4" json:"calificacion_4"`
	Rating5 int     `bson:"calificacion_5" json:"calificacion_5"`
}

type VisitTypeCount struct {
	VisitType models.VisitType `bson:"_id" json:"_id"`
	Count     int              `bson:"count" json:"count"`
}

type ReviewStats struct {
	General     RatingSummary    `json:"general"`
	ByVisitType []VisitTypeCount `json:"por_tipo_visita"`
}

type ReviewStore interface {
	List(ctx context.Context, f ReviewFilter) ([]models.Review, error)
	Search(ctx context.Context, query string) ([]models.Review, error)
	Get(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, r *models.Review) error
	Update(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*ReviewStats, error)
}

// Stores groups the three document stores handed to controllers and services.
type Stores struct {
	History     HistoryStore
	Preferences PreferenceStore
	Reviews     ReviewStore
}
