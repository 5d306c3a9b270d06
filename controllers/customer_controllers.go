package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetAllCustomers -> semua cliente, urut nama
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	customers := []models.Customer{}
	if err := cc.DB.WithContext(c.Request.Context()).Order("nombre ASC").Find(&customers).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, customers)
}

func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := cc.DB.WithContext(c.Request.Context()).First(&customer, id).Error; err != nil {
		respondDBError(c, err, "customer not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, customer)
}

// CreateCustomer -> nombre, correo dan telefono wajib diisi
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	type reqBody struct {
		Name  string `json:"nombre" binding:"required"`
		Email string `json:"correo" binding:"required,email"`
		Phone string `json:"telefono" binding:"required"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer := models.Customer{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := cc.DB.WithContext(c.Request.Context()).Create(&customer).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d)", customer.ID)
	utils.RespondJSON(c, http.StatusCreated, customer)
}

// UpdateCustomer -> field yang tidak dikirim tidak diubah
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type reqBody struct {
		Name  *string `json:"nombre" binding:"omitempty,min=1"`
		Email *string `json:"correo" binding:"omitempty,email"`
		Phone *string `json:"telefono" binding:"omitempty,min=1"`
	}

	var req reqBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		respondDBError(c, err, "customer not found")
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}

	if err := db.Save(&customer).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	utils.RespondJSON(c, http.StatusOK, customer)
}

func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := cc.DB.WithContext(c.Request.Context()).Delete(&models.Customer{}, id)
	if res.Error != nil {
		respondDBError(c, res.Error, "")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondMessage(c, http.StatusNotFound, "customer not found")
		return
	}

	utils.InfoLogger.Printf("Customer %d deleted", id)
	utils.RespondMessage(c, http.StatusOK, "customer deleted")
}
