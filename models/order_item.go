package models

// OrderLine menyimpan harga dan biaya plato pada saat pesanan dibuat.
type OrderLine struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"column:pedido_id;not null;index" json:"pedido_id"`
	DishID    uint    `gorm:"column:plato_id;not null;index" json:"plato_id"`
	Dish      *Dish   `gorm:"foreignKey:DishID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"plato,omitempty"`
	Quantity  int     `gorm:"column:cantidad;not null" json:"cantidad"`
	UnitPrice float64 `gorm:"column:precio_unitario;type:decimal(10,2);not null" json:"precio_unitario"`
	UnitCost  float64 `gorm:"column:costo_unitario;type:decimal(10,2);not null;default:0" json:"costo_unitario"`
	Subtotal  float64 `gorm:"column:subtotal;type:decimal(10,2);not null" json:"subtotal"`
	Notes     string  `gorm:"column:observaciones;type:text" json:"observaciones"`
}

func (OrderLine) TableName() string { return "pedido_plato" }
