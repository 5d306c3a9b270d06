package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type ReviewController struct {
	Reviews docstore.ReviewStore
}

func NewReviewController(reviews docstore.ReviewStore) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

type reviewRequest struct {
	Rating     *int              `json:"calificacion" binding:"omitempty,min=1,max=5"`
	Comment    *string           `json:"comentario" binding:"omitempty,min=1"`
	VisitType  *models.VisitType `json:"tipo_visita"`
	Dishes     *[]string         `json:"platos_consumidos"`
	CustomerID *uint             `json:"cliente_id"`
}

func (r reviewRequest) validVisitType() bool {
	return r.VisitType == nil || r.VisitType.Valid()
}

// GetReviews -> semua resena, terbaru dulu
func (rc *ReviewController) GetReviews(c *gin.Context) {
	reviews, err := rc.Reviews.List(c.Request.Context(), docstore.ReviewFilter{})
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, reviews)
}

// FilterReviews -> tipo_visita, calificacion_min, calificacion_max, plato
func (rc *ReviewController) FilterReviews(c *gin.Context) {
	f := docstore.ReviewFilter{
		VisitType: models.VisitType(c.Query("tipo_visita")),
		Dish:      c.Query("plato"),
	}
	if f.VisitType != "" && !f.VisitType.Valid() {
		badRequest(c, "invalid tipo_visita %q", f.VisitType)
		return
	}
	for key, dst := range map[string]*int{"calificacion_min": &f.MinRating, "calificacion_max": &f.MaxRating} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 5 {
			badRequest(c, "%s must be a number between 1 and 5", key)
			return
		}
		*dst = v
	}

	reviews, err := rc.Reviews.List(c.Request.Context(), f)
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, reviews)
}

// SearchReviews -> GET /resenas/buscar?query=
func (rc *ReviewController) SearchReviews(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		badRequest(c, "query parameter is required")
		return
	}

	reviews, err := rc.Reviews.Search(c.Request.Context(), query)
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, reviews)
}

func (rc *ReviewController) GetReviewStats(c *gin.Context) {
	stats, err := rc.Reviews.Stats(c.Request.Context())
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, stats)
}

// GetCustomerReviews -> GET /resenas/cliente/:id
func (rc *ReviewController) GetCustomerReviews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reviews, err := rc.Reviews.List(c.Request.Context(), docstore.ReviewFilter{CustomerID: &id})
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, reviews)
}

func (rc *ReviewController) GetReviewByID(c *gin.Context) {
	review, err := rc.Reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDBError(c, err, "review not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, review)
}

// CreateReview -> calificacion, comentario, tipo_visita dan cliente_id wajib
func (rc *ReviewController) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Rating == nil || req.Comment == nil || req.VisitType == nil || req.CustomerID == nil {
		badRequest(c, "calificacion, comentario, tipo_visita and cliente_id are required")
		return
	}
	if !req.validVisitType() {
		badRequest(c, "invalid tipo_visita %q", *req.VisitType)
		return
	}

	review := models.Review{
		Rating:     *req.Rating,
		Comment:    *req.Comment,
		VisitType:  *req.VisitType,
		Dishes:     []string{},
		CustomerID: *req.CustomerID,
		ReviewedAt: time.Now().UTC(),
	}
	if req.Dishes != nil {
		review.Dishes = *req.Dishes
	}

	if err := rc.Reviews.Create(c.Request.Context(), &review); err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusCreated, review)
}

// UpdateReview -> hanya field yang dikirim yang diubah
func (rc *ReviewController) UpdateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.validVisitType() {
		badRequest(c, "invalid tipo_visita %q", *req.VisitType)
		return
	}

	ctx := c.Request.Context()
	review, err := rc.Reviews.Get(ctx, c.Param("id"))
	if err != nil {
		respondDBError(c, err, "review not found")
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if req.VisitType != nil {
		review.VisitType = *req.VisitType
	}
	if req.Dishes != nil {
		review.Dishes = *req.Dishes
	}

	if err := rc.Reviews.Update(ctx, review); err != nil {
		respondDBError(c, err, "review not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, review)
}

func (rc *ReviewController) DeleteReview(c *gin.Context) {
	if err := rc.Reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondDBError(c, err, "review not found")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "review deleted")
}
