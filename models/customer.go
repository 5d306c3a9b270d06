package models

import (
	"time"
)

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Email     string    `gorm:"column:correo;type:varchar(255);not null;uniqueIndex" json:"correo"`
	Phone     string    `gorm:"column:telefono;type:varchar(50);not null" json:"telefono"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Customer) TableName() string { return "clientes" }
