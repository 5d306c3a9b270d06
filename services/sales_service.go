package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type DaySales struct {
	Day    string  `json:"dia"`
	Sales  float64 `json:"ventas"`
	Orders int     `json:"pedidos"`
}

type MonthSales struct {
	Month string  `json:"mes"`
	Sales float64 `json:"ventas"`
}

type CategorySales struct {
	Category string  `json:"categoria"`
	Sales    float64 `json:"ventas"`
}

type PopularDish struct {
	Name    string  `json:"nombre"`
	Sales   int     `json:"ventas"`
	Revenue float64 `json:"ingresos"`
}

// SalesDashboard is the payload of GET /api/ventas.
type SalesDashboard struct {
	TotalSales    float64         `json:"totalVentas"`
	TotalOrders   int64           `json:"totalPedidos"`
	NetProfit     float64         `json:"gananciaNeta"`
	TodaySales    float64         `json:"ventasHoy"`
	WeekSales     []DaySales      `json:"ventasSemana"`
	MonthSales    []MonthSales    `json:"ventasMes"`
	CategorySales []CategorySales `json:"ventasPorCategoria"`
	PopularDishes []PopularDish   `json:"platosPopulares"`
}

// SalesRange -> From inclusive, To exclusive. Either may be nil.
type SalesRange struct {
	From *time.Time
	To   *time.Time
}

type SalesService struct {
	DB      *gorm.DB
	History docstore.HistoryStore
	Now     func() time.Time
}

func NewSalesService(db *gorm.DB, history docstore.HistoryStore) *SalesService {
	return &SalesService{
		DB:      db,
		History: history,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *SalesService) Dashboard(ctx context.Context, r SalesRange) (*SalesDashboard, error) {
	db := s.DB.WithContext(ctx)
	now := s.Now()
	today := utils.StartOfDay(now)

	var totals struct {
		Sales  float64
		Orders int64
		Profit float64
	}
	if err := inRange(db.Model(&models.Order{}), "fecha", r).
		Select("COALESCE(SUM(total), 0) AS sales, COUNT(id) AS orders, COALESCE(SUM(total - costo_total), 0) AS profit").
		Scan(&totals).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}

	var todaySales float64
	if err := db.Model(&models.Order{}).
		Where("fecha >= ? AND fecha < ?", today, today.AddDate(0, 0, 1)).
		Select("COALESCE(SUM(total), 0)").
		Scan(&todaySales).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}

	weekStart := today.AddDate(0, 0, -6)
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	since := yearStart
	if weekStart.Before(since) {
		since = weekStart
	}
	var recent []models.Order
	if err := db.Select("id", "fecha", "total").
		Where("fecha >= ?", since).
		Find(&recent).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}

	categories := []CategorySales{}
	if err := inRange(db.Table("pedido_plato AS pp"), "o.fecha", r).
		Select("p.categoria AS category, COALESCE(SUM(pp.subtotal), 0) AS sales").
		Joins("JOIN platos p ON p.id = pp.plato_id").
		Joins("JOIN pedidos o ON o.id = pp.pedido_id").
		Group("p.categoria").
		Order("sales DESC").
		Scan(&categories).Error; err != nil {
		return nil, Internal(err, "database error: %v", err)
	}
	for i := range categories {
		categories[i].Sales = utils.RoundMoney(categories[i].Sales)
	}

	popular := []PopularDish{}
	if r.From != nil && r.To != nil {
		stats, err := s.History.TopDishes(ctx, docstore.DishStatsQuery{From: r.From, To: r.To, Limit: 5})
		if err != nil {
			return nil, Internal(err, "history store error: %v", err)
		}
		for _, st := range stats {
			popular = append(popular, PopularDish{Name: st.Name, Sales: st.Quantity, Revenue: utils.RoundMoney(st.Revenue)})
		}
	}

	return &SalesDashboard{
		TotalSales:    utils.RoundMoney(totals.Sales),
		TotalOrders:   totals.Orders,
		NetProfit:     utils.RoundMoney(totals.Profit),
		TodaySales:    utils.RoundMoney(todaySales),
		WeekSales:     weekBuckets(recent, weekStart),
		MonthSales:    monthBuckets(recent, yearStart, today),
		CategorySales: categories,
		PopularDishes: popular,
	}, nil
}

func inRange(q *gorm.DB, column string, r SalesRange) *gorm.DB {
	if r.From != nil {
		q = q.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		q = q.Where(column+" < ?", *r.To)
	}
	return q
}

// weekBuckets returns seven days starting at start, oldest first, zero-filled.
func weekBuckets(orders []models.Order, start time.Time) []DaySales {
	days := make([]DaySales, 7)
	for i := range days {
		days[i].Day = start.AddDate(0, 0, i).Format("Mon")
	}
	end := start.AddDate(0, 0, 7)
	for _, o := range orders {
		at := o.Date.UTC()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		i := int(utils.StartOfDay(at).Sub(start).Hours() / 24)
		days[i].Sales += o.Total
		days[i].Orders++
	}
	for i := range days {
		days[i].Sales = utils.RoundMoney(days[i].Sales)
	}
	return days
}

// monthBuckets returns January through the current month of the current year.
func monthBuckets(orders []models.Order, yearStart, today time.Time) []MonthSales {
	months := make([]MonthSales, int(today.Month()))
	for i := range months {
		months[i].Month = time.Month(i + 1).String()[:3]
	}
	for _, o := range orders {
		at := o.Date.UTC()
		if at.Before(yearStart) || at.Year() != today.Year() || int(at.Month()) > len(months) {
			continue
		}
		months[at.Month()-1].Sales += o.Total
	}
	for i := range months {
		months[i].Sales = utils.RoundMoney(months[i].Sales)
	}
	return months
}
