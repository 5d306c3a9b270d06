package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

// GetReservations -> filter fecha, cliente_id, estado; urut fecha lalu hora
func (rc *ReservationController) GetReservations(c *gin.Context) {
	f := services.ReservationFilter{Date: c.Query("fecha")}
	customerID, ok := queryUint(c, "cliente_id")
	if !ok {
		return
	}
	f.CustomerID = customerID
	if s := models.ReservationStatus(c.Query("estado")); s != "" {
		if !s.Valid() {
			badRequest(c, "invalid estado %q", s)
			return
		}
		f.Status = s
	}

	reservations, err := rc.Reservations.List(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

// GetReservationsByDate -> GET /reservas/fecha/:fecha
func (rc *ReservationController) GetReservationsByDate(c *gin.Context) {
	reservations, err := rc.Reservations.ByDate(c.Request.Context(), c.Param("fecha"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := rc.Reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, r)
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.CreateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	r, err := rc.Reservations.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, r)
}

func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	r, err := rc.Reservations.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, r)
}

// UpdateReservationStatus -> PATCH /reservas/:id/estado
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type reqBody struct {
		Status models.ReservationStatus `json:"estado" binding:"required"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	r, err := rc.Reservations.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, r)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.Reservations.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "reservation deleted")
}
