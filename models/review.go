package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Rating     int                `bson:"calificacion" json:"calificacion"`
	Comment    string             `bson:"comentario" json:"comentario"`
	VisitType  VisitType          `bson:"tipo_visita" json:"tipo_visita"`
	Dishes     []string           `bson:"platos_consumidos" json:"platos_consumidos"`
	CustomerID uint               `bson:"cliente_id" json:"cliente_id"`
	ReviewedAt time.Time          `bson:"fecha_resena" json:"fecha_resena"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
	// Score is only filled by text search.
	Score float64 `bson:"score,omitempty" json:"score,omitempty"`
}
