package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Preference struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	CustomerID      uint               `bson:"cliente_id" json:"cliente_id"`
	Intolerances    []string           `bson:"intolerancias" json:"intolerancias"`
	PreferredStyles []string           `bson:"estilos_preferidos" json:"estilos_preferidos"`
	LastUpdated     *time.Time         `bson:"ultima_actualizacion" json:"ultima_actualizacion"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt,omitempty"`
}

// DefaultPreference is what a customer without stored preferences reads as.
func DefaultPreference(customerID uint) Preference {
	return Preference{
		CustomerID:      customerID,
		Intolerances:    []string{},
		PreferredStyles: []string{},
	}
}
