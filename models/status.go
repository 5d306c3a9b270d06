package models

// TableStatus is the lifecycle state of a dining table.
type TableStatus string

const (
	TableAvailable   TableStatus = "disponible"
	TableOccupied    TableStatus = "ocupada"
	TableReserved    TableStatus = "reservada"
	TableMaintenance TableStatus = "mantenimiento"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}

// OrderStatus is the kitchen/service state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pendiente"
	OrderPreparing OrderStatus = "en_preparacion"
	OrderReady     OrderStatus = "listo"
	OrderDelivered OrderStatus = "entregado"
	OrderCanceled  OrderStatus = "cancelado"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderCanceled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ReleasesTable reports whether reaching this status frees the order's table.
func (s OrderStatus) ReleasesTable() bool {
	return s == OrderDelivered || s == OrderCanceled
}

type OrderType string

const (
	OrderDineIn   OrderType = "mesa"
	OrderTakeout  OrderType = "para_llevar"
	OrderDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderDineIn, OrderTakeout, OrderDelivery:
		return true
	}
	return false
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pendiente"
	ReservationConfirmed ReservationStatus = "confirmada"
	ReservationCanceled  ReservationStatus = "cancelada"
	ReservationCompleted ReservationStatus = "completada"
)

var ReservationStatuses = []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCanceled, ReservationCompleted}

func (s ReservationStatus) Valid() bool {
	for _, v := range ReservationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Active reservations hold their slot; canceled and completed ones don't.
func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// InactiveReservationStatuses are excluded from slot conflict checks.
var InactiveReservationStatuses = []ReservationStatus{ReservationCanceled, ReservationCompleted}

type VisitType string

const (
	VisitFamily   VisitType = "familiar"
	VisitBusiness VisitType = "negocios"
	VisitRomantic VisitType = "romantica"
	VisitFriends  VisitType = "amigos"
	VisitOther    VisitType = "otro"
)

func (v VisitType) Valid() bool {
	switch v {
	case VisitFamily, VisitBusiness, VisitRomantic, VisitFriends, VisitOther:
		return true
	}
	return false
}
