package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.InitLogger("error")
	os.Exit(m.Run())
}

// setupTestDB -> sqlite in-memory, satu database per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig("error"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, email string) models.Customer {
	t.Helper()
	c := models.Customer{Name: "Ana Torres", Email: email, Phone: "555-0101"}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedTable(t *testing.T, db *gorm.DB, capacity int) models.Table {
	t.Helper()
	tb := models.Table{Capacity: capacity, Location: "Terraza", Status: models.TableAvailable}
	require.NoError(t, db.Create(&tb).Error)
	return tb
}

func seedDish(t *testing.T, db *gorm.DB, name string, price, cost float64, available bool) models.Dish {
	t.Helper()
	d := models.Dish{Name: name, Category: "Principal", Price: price, Cost: cost, Available: available}
	require.NoError(t, db.Create(&d).Error)
	return d
}

func tableStatus(t *testing.T, db *gorm.DB, id uint) models.TableStatus {
	t.Helper()
	var tb models.Table
	require.NoError(t, db.First(&tb, id).Error)
	return tb.Status
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// brokenHistory fails every write until healed.
type brokenHistory struct {
	docstore.HistoryStore
	mu     sync.Mutex
	broken bool
}

func (b *brokenHistory) fail() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broken {
		return errors.New("history store unreachable")
	}
	return nil
}

func (b *brokenHistory) interrupt() {
	b.mu.Lock()
	b.broken = true
	b.mu.Unlock()
}

func (b *brokenHistory) heal() {
	b.mu.Lock()
	b.broken = false
	b.mu.Unlock()
}

func (b *brokenHistory) InsertSnapshot(ctx context.Context, h *models.OrderHistory) error {
	if err := b.fail(); err != nil {
		return err
	}
	return b.HistoryStore.InsertSnapshot(ctx, h)
}

func (b *brokenHistory) UpdateStatus(ctx context.Context, id uint, s models.OrderStatus) error {
	if err := b.fail(); err != nil {
		return err
	}
	return b.HistoryStore.UpdateStatus(ctx, id, s)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
