package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HistoryLine struct {
	DishID    uint    `bson:"plato_id,omitempty" json:"plato_id,omitempty"`
	DishName  string  `bson:"nombre_plato" json:"nombre_plato" binding:"required"`
	Quantity  int     `bson:"cantidad" json:"cantidad" binding:"required,min=1"`
	UnitPrice float64 `bson:"precio_unitario" json:"precio_unitario" binding:"min=0"`
	Notes     string  `bson:"observaciones" json:"observaciones"`
}

// OrderHistory is the denormalized snapshot of an order kept in the document store.
type OrderHistory struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OrderID    uint               `bson:"pedido_id" json:"pedido_id"`
	CustomerID *uint              `bson:"cliente_id" json:"cliente_id"`
	TableID    *uint              `bson:"mesa_id" json:"mesa_id"`
	OrderType  OrderType          `bson:"tipo_pedido" json:"tipo_pedido"`
	Lines      []HistoryLine      `bson:"detalles_platos" json:"detalles_platos"`
	OrderedAt  time.Time          `bson:"fecha_pedido" json:"fecha_pedido"`
	Total      float64            `bson:"total" json:"total"`
	Status     OrderStatus        `bson:"estado" json:"estado"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
