package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

// MenuController mengelola katalog platos.
type MenuController struct {
	DB     *gorm.DB
	Images services.ImageStore
}

func NewMenuController(db *gorm.DB, images services.ImageStore) *MenuController {
	return &MenuController{DB: db, Images: images}
}

type dishRequest struct {
	Name        *string  `json:"nombre" binding:"omitempty,min=1"`
	Category    *string  `json:"categoria" binding:"omitempty,min=1"`
	Price       *float64 `json:"precio" binding:"omitempty,min=0"`
	Cost        *float64 `json:"costo" binding:"omitempty,min=0"`
	Available   *bool    `json:"disponibilidad"`
	Description *string  `json:"descripcion"`
	Image       *string  `json:"imagen"`
}

func (r dishRequest) apply(d *models.Dish) {
	if r.Name != nil {
		d.Name = *r.Name
	}
	if r.Category != nil {
		d.Category = *r.Category
	}
	if r.Price != nil {
		d.Price = utils.RoundMoney(*r.Price)
	}
	if r.Cost != nil {
		d.Cost = utils.RoundMoney(*r.Cost)
	}
	if r.Available != nil {
		d.Available = *r.Available
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	if r.Image != nil {
		d.Image = *r.Image
	}
}

// GetAllMenus -> filter opsional categoria dan disponibilidad
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	q := mc.DB.WithContext(c.Request.Context())
	if category := c.Query("categoria"); category != "" {
		q = q.Where("categoria = ?", category)
	}
	if raw, ok := c.GetQuery("disponibilidad"); ok {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "invalid disponibilidad")
			return
		}
		q = q.Where("disponibilidad = ?", available)
	}

	dishes := []models.Dish{}
	if err := q.Order("categoria ASC").Order("nombre ASC").Find(&dishes).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, dishes)
}

// SearchMenus -> pencarian nama tanpa memperhatikan huruf besar/kecil
func (mc *MenuController) SearchMenus(c *gin.Context) {
	name := strings.TrimSpace(c.Query("nombre"))
	if name == "" {
		badRequest(c, "nombre query parameter is required")
		return
	}

	dishes := []models.Dish{}
	if err := mc.DB.WithContext(c.Request.Context()).
		Where("LOWER(nombre) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("nombre ASC").
		Find(&dishes).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, dishes)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var dish models.Dish
	if err := mc.DB.WithContext(c.Request.Context()).First(&dish, id).Error; err != nil {
		respondDBError(c, err, "dish not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, dish)
}

// CreateMenu
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req dishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil || req.Category == nil || req.Price == nil {
		badRequest(c, "nombre, categoria and precio are required")
		return
	}

	dish := models.Dish{Available: true}
	req.apply(&dish)

	if err := mc.DB.WithContext(c.Request.Context()).Create(&dish).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.InfoLogger.Printf("Dish created (ID=%d, %s, %s)", dish.ID, dish.Name, utils.FormatMoney(dish.Price))
	utils.RespondJSON(c, http.StatusCreated, dish)
}

// UpdateMenu -> hanya field yang dikirim yang diubah
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db := mc.DB.WithContext(c.Request.Context())
	var dish models.Dish
	if err := db.First(&dish, id).Error; err != nil {
		respondDBError(c, err, "dish not found")
		return
	}

	req.apply(&dish)
	if err := db.Save(&dish).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, dish)
}

// DeleteMenu -> plato yang sudah pernah dipesan tidak boleh dihapus
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := mc.DB.WithContext(c.Request.Context())
	var dish models.Dish
	if err := db.First(&dish, id).Error; err != nil {
		respondDBError(c, err, "dish not found")
		return
	}

	var used int64
	if err := db.Model(&models.OrderLine{}).Where("plato_id = ?", id).Count(&used).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	if used > 0 {
		badRequest(c, "dish %d appears in %d order lines; mark it unavailable instead", id, used)
		return
	}

	if err := db.Delete(&dish).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	if err := mc.Images.Delete(c.Request.Context(), dish.Image); err != nil {
		utils.ErrorLogger.Printf("Error deleting image of dish %d: %v", id, err)
	}
	utils.RespondMessage(c, http.StatusOK, "dish deleted")
}

// ToggleAvailability -> PATCH /platos/:id/disponibilidad
func (mc *MenuController) ToggleAvailability(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := mc.DB.WithContext(c.Request.Context())
	var dish models.Dish
	if err := db.First(&dish, id).Error; err != nil {
		respondDBError(c, err, "dish not found")
		return
	}

	dish.Available = !dish.Available
	if err := db.Model(&dish).Update("disponibilidad", dish.Available).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, dish)
}

// UploadMenuImage -> multipart field "imagen"; gambar lama dihapus setelah berhasil
func (mc *MenuController) UploadMenuImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// Batasi ukuran upload
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImageSize+(1<<20))

	file, err := c.FormFile("imagen")
	if err != nil {
		badRequest(c, "imagen file is required")
		return
	}

	ctx := c.Request.Context()
	db := mc.DB.WithContext(ctx)
	var dish models.Dish
	if err := db.First(&dish, id).Error; err != nil {
		respondDBError(c, err, "dish not found")
		return
	}

	url, err := mc.Images.Save(ctx, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	previous := dish.Image
	if err := db.Model(&dish).Update("imagen", url).Error; err != nil {
		_ = mc.Images.Delete(ctx, url)
		respondDBError(c, err, "")
		return
	}
	dish.Image = url
	if err := mc.Images.Delete(ctx, previous); err != nil {
		utils.ErrorLogger.Printf("Error deleting previous image of dish %d: %v", id, err)
	}

	utils.RespondJSON(c, http.StatusOK, dish)
}
