package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

// HistoryRelay copies committed order changes from the outbox_events table
// into the history store. Order operations deliver their own event right
// after commit; the polling loop picks up whatever that attempt missed.
type HistoryRelay struct {
	DB          *gorm.DB
	History     docstore.HistoryStore
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int // failures before a row is given up on; 0 retries until delivered

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewHistoryRelay(db *gorm.DB, history docstore.HistoryStore) *HistoryRelay {
	return &HistoryRelay{
		DB:        db,
		History:   history,
		Interval:  2 * time.Second,
		BatchSize: 100,
		stopChan:  make(chan struct{}),
	}
}

func (r *HistoryRelay) Start() {
	go func() {
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := r.ProcessPending(context.Background()); err != nil {
					utils.ErrorLogger.Printf("Error processing outbox: %v", err)
				}
			case <-r.stopChan:
				return
			}
		}
	}()
	utils.Component("history-relay").Infof("Started, polling every %s", r.Interval)
}

func (r *HistoryRelay) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}

// ProcessPending delivers up to BatchSize pending events in insertion order
// and returns how many were delivered.
func (r *HistoryRelay) ProcessPending(ctx context.Context) (int, error) {
	q := r.DB.WithContext(ctx).Where("processed = ?", false)
	if r.MaxAttempts > 0 {
		q = q.Where("attempts < ?", r.MaxAttempts)
	}

	var events []models.OutboxEvent
	if err := q.Order("id ASC").
		Limit(r.BatchSize).
		Find(&events).Error; err != nil {
		return 0, fmt.Errorf("fetch outbox events: %w", err)
	}

	delivered := 0
	for i := range events {
		if err := r.Deliver(ctx, &events[i]); err == nil {
			delivered++
		}
	}
	if len(events) > 0 {
		utils.Component("history-relay").WithFields(logrus.Fields{
			"pending":   len(events),
			"delivered": delivered,
		}).Info("Outbox batch processed")
	}
	return delivered, nil
}

// Deliver applies one event and records the outcome on its row.
func (r *HistoryRelay) Deliver(ctx context.Context, ev *models.OutboxEvent) error {
	db := r.DB.WithContext(ctx)
	log := utils.ErrorLogger.WithFields(logrus.Fields{
		"outbox_id": ev.ID,
		"topic":     ev.Topic,
		"record_id": ev.RecordID,
	})

	if err := r.apply(ctx, ev); err != nil {
		log.Errorf("Error mirroring to history store: %v", err)
		if uerr := db.Model(ev).Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": err.Error(),
		}).Error; uerr != nil {
			log.Errorf("Error recording failed outbox attempt: %v", uerr)
			return err
		}
		ev.Attempts++
		if r.MaxAttempts > 0 && ev.Attempts >= r.MaxAttempts {
			log.Errorf("Giving up on outbox event after %d attempts, history snapshot must be repaired by hand", ev.Attempts)
		}
		return err
	}

	now := time.Now().UTC()
	if err := db.Model(ev).Updates(map[string]interface{}{
		"processed":    true,
		"processed_at": now,
		"last_error":   "",
	}).Error; err != nil {
		log.Errorf("Error marking outbox event as processed: %v", err)
	}
	return nil
}

func (r *HistoryRelay) apply(ctx context.Context, ev *models.OutboxEvent) error {
	switch ev.Topic {
	case models.TopicHistoryCreate:
		var h models.OrderHistory
		if err := json.Unmarshal([]byte(ev.Payload), &h); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		return r.History.InsertSnapshot(ctx, &h)
	case models.TopicHistoryStatus:
		var change models.StatusChange
		if err := json.Unmarshal([]byte(ev.Payload), &change); err != nil {
			return fmt.Errorf("decode status change: %w", err)
		}
		status, err := r.currentStatus(ctx, change)
		if err != nil {
			return err
		}
		return r.History.UpdateStatus(ctx, change.OrderID, status)
	}
	return fmt.Errorf("unknown outbox topic %q", ev.Topic)
}

// currentStatus reads the order's estado at delivery time, so a late retry of
// an older change cannot overwrite a newer one. The payload value is used
// only when the order row is gone.
func (r *HistoryRelay) currentStatus(ctx context.Context, change models.StatusChange) (models.OrderStatus, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Select("id", "estado").First(&order, change.OrderID).Error
	switch {
	case err == nil:
		return order.Status, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return change.Status, nil
	default:
		return "", fmt.Errorf("load order estado: %w", err)
	}
}

func newOutboxEvent(topic string, recordID uint, payload interface{}) (*models.OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &models.OutboxEvent{Topic: topic, RecordID: recordID, Payload: string(body)}, nil
}

// deliverAfterCommit is the immediate mirror attempt. It is detached from
// the request context and bounded by its own timeout.
func (r *HistoryRelay) deliverAfterCommit(ctx context.Context, ev *models.OutboxEvent) {
	if r == nil || ev == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_ = r.Deliver(ctx, ev)
}
