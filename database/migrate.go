package database

import (
	"fmt"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

// Models lists every relational model in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.Customer{},
		&models.Table{},
		&models.Dish{},
		&models.Order{},
		&models.OrderLine{},
		&models.Reservation{},
		&models.OutboxEvent{},
	}
}

// Migrate runs AutoMigrate and then backfills slot keys for active
// reservations that were written before the slot_key column existed.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	var legacy []models.Reservation
	if err := db.Where("slot_key IS NULL AND estado IN ?", []models.ReservationStatus{
		models.ReservationPending, models.ReservationConfirmed,
	}).Find(&legacy).Error; err != nil {
		return fmt.Errorf("load reservations without slot key: %w", err)
	}

	for i := range legacy {
		// BeforeSave fills slot_key; a duplicate means the legacy data already double-booked the slot.
		if err := db.Save(&legacy[i]).Error; err != nil {
			utils.ErrorLogger.Printf("Error backfilling slot key for reservation %d: %v", legacy[i].ID, err)
		}
	}
	if len(legacy) > 0 {
		utils.InfoLogger.Printf("Backfilled slot keys for %d reservations", len(legacy))
	}
	return nil
}
