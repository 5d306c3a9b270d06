package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Reservation struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	CustomerID uint              `gorm:"column:cliente_id;not null;index" json:"cliente_id"`
	Customer   *Customer         `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"cliente,omitempty"`
	TableID    uint              `gorm:"column:mesa_id;not null;index:idx_reservas_slot_lookup,priority:1" json:"mesa_id"`
	Table      *Table            `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"mesa,omitempty"`
	Date       string            `gorm:"column:fecha;type:varchar(10);not null;index:idx_reservas_slot_lookup,priority:2" json:"fecha"`
	Time       string            `gorm:"column:hora;type:varchar(5);not null;index:idx_reservas_slot_lookup,priority:3" json:"hora"`
	PartySize  int               `gorm:"column:num_personas;not null" json:"num_personas"`
	Status     ReservationStatus `gorm:"column:estado;type:varchar(20);not null;default:'pendiente'" json:"estado"`
	// SlotKey is set only while the reservation is active; the unique index
	// makes a second active booking of the same slot fail at the database.
	SlotKey   *string   `gorm:"column:slot_key;type:varchar(64);uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Reservation) TableName() string { return "reservas" }

func SlotKey(tableID uint, date, clock string) string {
	return fmt.Sprintf("%d|%s|%s", tableID, date, clock)
}

func (r *Reservation) BeforeSave(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = ReservationPending
	}
	if r.Status.Active() {
		key := SlotKey(r.TableID, r.Date, r.Time)
		r.SlotKey = &key
	} else {
		r.SlotKey = nil
	}
	return nil
}
