package models

import "time"

// Dish adalah item pada katalog menu.
type Dish struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Category    string    `gorm:"column:categoria;type:varchar(100);not null;index" json:"categoria"`
	Price       float64   `gorm:"column:precio;type:decimal(10,2);not null" json:"precio"`
	Cost        float64   `gorm:"column:costo;type:decimal(10,2);not null;default:0" json:"costo"`
	Available   bool      `gorm:"column:disponibilidad;not null" json:"disponibilidad"`
	Description string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	Image       string    `gorm:"column:imagen;type:varchar(255)" json:"imagen"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Dish) TableName() string { return "platos" }
