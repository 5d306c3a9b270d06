package models

import (
	"time"
)

type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CustomerID *uint       `gorm:"column:cliente_id;index" json:"cliente_id"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"cliente,omitempty"`
	TableID    *uint       `gorm:"column:mesa_id;index" json:"mesa_id"`
	Table      *Table      `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"mesa,omitempty"`
	Date       time.Time   `gorm:"column:fecha;not null;index" json:"fecha"`
	Total      float64     `gorm:"column:total;type:decimal(10,2);not null" json:"total"`
	TotalCost  float64     `gorm:"column:costo_total;type:decimal(10,2);not null;default:0" json:"costo_total"`
	Status     OrderStatus `gorm:"column:estado;type:varchar(20);not null;default:'pendiente';index" json:"estado"`
	Type       OrderType   `gorm:"column:tipo_pedido;type:varchar(20);not null;default:'mesa'" json:"tipo_pedido"`
	Notes      string      `gorm:"column:observaciones;type:text" json:"observaciones"`
	Lines      []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"platos"`
	CreatedAt  time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updatedAt"`
}

func (Order) TableName() string { return "pedidos" }

// Snapshot builds the denormalized history document for this order.
// Lines must have their Dish loaded for the dish names to be filled in.
func (o *Order) Snapshot() OrderHistory {
	lines := make([]HistoryLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		line := HistoryLine{
			DishID:    l.DishID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Notes:     l.Notes,
		}
		if l.Dish != nil {
			line.DishName = l.Dish.Name
		}
		lines = append(lines, line)
	}
	return OrderHistory{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		TableID:    o.TableID,
		OrderType:  o.Type,
		Lines:      lines,
		OrderedAt:  o.Date,
		Total:      o.Total,
		Status:     o.Status,
	}
}
