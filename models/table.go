package models

import "time"

type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Capacity    int         `gorm:"column:capacidad;not null" json:"capacidad"`
	Location    string      `gorm:"column:ubicacion;type:varchar(255);not null" json:"ubicacion"`
	Status      TableStatus `gorm:"column:estado;type:varchar(20);not null;default:'disponible';index" json:"estado"`
	Description string      `gorm:"column:descripcion;type:text" json:"descripcion"`
	CreatedAt   time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updatedAt"`
}

func (Table) TableName() string { return "mesas" }
