package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")
	os.Exit(m.Run())
}

// commandRecorder answers every redis command with an empty reply and keeps
// the arguments, so no server is needed.
type commandRecorder struct {
	mu   sync.Mutex
	cmds [][]interface{}
}

func (h *commandRecorder) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("dial %s disabled in tests", addr)
	}
}

func (h *commandRecorder) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		h.cmds = append(h.cmds, cmd.Args())
		h.mu.Unlock()
		return nil
	}
}

func (h *commandRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.ProcessHook(nil)(ctx, cmd)
		}
		return nil
	}
}

// scans returns the MATCH patterns of every SCAN seen since the last call.
func (h *commandRecorder) scans() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, args := range h.cmds {
		if len(args) == 0 || !strings.EqualFold(fmt.Sprint(args[0]), "scan") {
			continue
		}
		for i := 1; i+1 < len(args); i++ {
			if strings.EqualFold(fmt.Sprint(args[i]), "match") {
				out = append(out, fmt.Sprint(args[i+1]))
			}
		}
	}
	h.cmds = nil
	return out
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB, *commandRecorder) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig("error"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	rec := &commandRecorder{}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(rec)
	t.Cleanup(func() { rdb.Close() })

	stores := docstore.NewMemoryStores()
	r := SetupRouter(Deps{
		DB:           db,
		Stores:       stores,
		Orders:       services.NewOrderService(db, stores.History, nil),
		Reservations: services.NewReservationService(db, nil),
		Sales:        services.NewSalesService(db, stores.History),
		Images:       services.NewLocalImageStore(t.TempDir(), "/uploads"),
		Redis:        rdb,
	})
	return r, db, rec
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDishWritesInvalidateSalesCache(t *testing.T) {
	r, db, rec := setupRouter(t)
	require.NoError(t, db.Create(&models.Dish{Name: "Tacos", Category: "Principal", Price: 10, Cost: 4, Available: true}).Error)

	w := doJSON(r, http.MethodGet, "/api/platos/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, rec.scans(), "reads keep the cache")

	w = doJSON(r, http.MethodPut, "/api/platos/1", map[string]interface{}{"categoria": "Entrada"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{salesCachePrefix + ":*"}, rec.scans())

	w = doJSON(r, http.MethodPatch, "/api/platos/1/disponibilidad", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{salesCachePrefix + ":*"}, rec.scans())

	w = doJSON(r, http.MethodPut, "/api/platos/99", map[string]interface{}{"categoria": "Entrada"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, rec.scans(), "failed writes keep the cache")
}

func TestOrderWritesInvalidateSalesAndHistoryCache(t *testing.T) {
	r, db, rec := setupRouter(t)
	require.NoError(t, db.Create(&models.Dish{Name: "Flan", Category: "Postre", Price: 5, Cost: 1.5, Available: true}).Error)

	w := doJSON(r, http.MethodPost, "/api/pedidos", map[string]interface{}{
		"tipo_pedido": "para_llevar",
		"items":       []map[string]interface{}{{"plato_id": 1, "cantidad": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.ElementsMatch(t, []string{salesCachePrefix + ":*", historyCachePrefix + ":*"}, rec.scans())
}
