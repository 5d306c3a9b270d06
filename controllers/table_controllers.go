package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB           *gorm.DB
	Reservations *services.ReservationService
}

func NewTableController(db *gorm.DB, reservations *services.ReservationService) *TableController {
	return &TableController{DB: db, Reservations: reservations}
}

// GetAllTables
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables := []models.Table{}
	if err := tc.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&tables).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}

// GetTableByID
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.WithContext(c.Request.Context()).First(&table, id).Error; err != nil {
		respondDBError(c, err, "table not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, table)
}

// CreateTable -> meja baru selalu mulai dengan estado disponible kecuali dikirim lain
func (tc *TableController) CreateTable(c *gin.Context) {
	type reqBody struct {
		Capacity    int                `json:"capacidad" binding:"required,min=1"`
		Location    string             `json:"ubicacion" binding:"required"`
		Description string             `json:"descripcion"`
		Status      models.TableStatus `json:"estado"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status == "" {
		req.Status = models.TableAvailable
	}
	if !req.Status.Valid() {
		badRequest(c, "invalid estado %q", req.Status)
		return
	}

	table := models.Table{
		Capacity:    req.Capacity,
		Location:    req.Location,
		Description: req.Description,
		Status:      req.Status,
	}
	if err := tc.DB.WithContext(c.Request.Context()).Create(&table).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusCreated, table)
}

// UpdateTable -> capacidad, ubicacion, descripcion dan estado (mis. mantenimiento)
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type reqBody struct {
		Capacity    *int                `json:"capacidad" binding:"omitempty,min=1"`
		Location    *string             `json:"ubicacion" binding:"omitempty,min=1"`
		Description *string             `json:"descripcion"`
		Status      *models.TableStatus `json:"estado"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		badRequest(c, "invalid estado %q", *req.Status)
		return
	}

	db := tc.DB.WithContext(c.Request.Context())
	var table models.Table
	if err := db.First(&table, id).Error; err != nil {
		respondDBError(c, err, "table not found")
		return
	}

	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = *req.Location
	}
	if req.Description != nil {
		table.Description = *req.Description
	}
	if req.Status != nil {
		table.Status = *req.Status
	}

	if err := db.Save(&table).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, table)
}

// DeleteTable -> ditolak jika masih ada reserva aktif mulai hari ini
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := tc.Reservations.DeleteTable(c.Request.Context(), id, time.Now()); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondMessage(c, http.StatusOK, "table deleted")
}

// CheckAvailability -> GET /mesas/disponibilidad?fecha=&hora=&num_personas=
func (tc *TableController) CheckAvailability(c *gin.Context) {
	date, clock, people := c.Query("fecha"), c.Query("hora"), c.Query("num_personas")
	if date == "" || clock == "" || people == "" {
		badRequest(c, "fecha, hora and num_personas are required")
		return
	}
	partySize, err := strconv.Atoi(people)
	if err != nil {
		badRequest(c, "invalid num_personas")
		return
	}

	tables, err := tc.Reservations.AvailableTables(c.Request.Context(), date, clock, partySize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}
