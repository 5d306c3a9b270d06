package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type PreferenceController struct {
	DB          *gorm.DB
	Preferences docstore.PreferenceStore
}

func NewPreferenceController(db *gorm.DB, prefs docstore.PreferenceStore) *PreferenceController {
	return &PreferenceController{DB: db, Preferences: prefs}
}

// customerExists writes the 404 itself and returns false when the cliente is unknown.
func (pc *PreferenceController) customerExists(c *gin.Context, id uint) bool {
	var customer models.Customer
	if err := pc.DB.WithContext(c.Request.Context()).Select("id").First(&customer, id).Error; err != nil {
		respondDBError(c, err, "customer not found")
		return false
	}
	return true
}

// GetAllPreferences -> semua dokumen preferencias yang tersimpan
func (pc *PreferenceController) GetAllPreferences(c *gin.Context) {
	prefs, err := pc.Preferences.List(c.Request.Context())
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, prefs)
}

// GetCustomerPreferences -> bentuk kosong jika cliente belum punya preferencias
func (pc *PreferenceController) GetCustomerPreferences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !pc.customerExists(c, id) {
		return
	}

	pref, err := pc.Preferences.Get(c.Request.Context(), id)
	if errors.Is(err, docstore.ErrNotFound) {
		def := models.DefaultPreference(id)
		utils.RespondJSON(c, http.StatusOK, def)
		return
	}
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, pref)
}

// UpsertCustomerPreferences -> POST/PUT /preferencias/cliente/:id
func (pc *PreferenceController) UpsertCustomerPreferences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type reqBody struct {
		Intolerances    *[]string `json:"intolerancias"`
		PreferredStyles *[]string `json:"estilos_preferidos"`
	}
	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Intolerances == nil && req.PreferredStyles == nil {
		badRequest(c, "intolerancias or estilos_preferidos is required")
		return
	}
	if !pc.customerExists(c, id) {
		return
	}

	pref, err := pc.Preferences.Upsert(c.Request.Context(), id, docstore.PreferencePatch{
		Intolerances:    req.Intolerances,
		PreferredStyles: req.PreferredStyles,
	})
	if err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, pref)
}

func (pc *PreferenceController) DeleteCustomerPreferences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.Preferences.Delete(c.Request.Context(), id); err != nil {
		respondDBError(c, err, "preferences not found for this customer")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "preferences deleted")
}
