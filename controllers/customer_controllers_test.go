package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/models"
)

func TestCustomerCRUD(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/clientes", map[string]interface{}{
		"nombre":   "Ana Torres",
		"correo":   "ana@example.com",
		"telefono": "555-0101",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Customer](t, w)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ana@example.com", created.Email)

	w = s.do(t, http.MethodGet, "/api/clientes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana Torres", decode[models.Customer](t, w).Name)

	// Hanya telefono yang dikirim, field lain tetap
	w = s.do(t, http.MethodPut, "/api/clientes/1", map[string]interface{}{"telefono": "555-9999"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Customer](t, w)
	assert.Equal(t, "555-9999", updated.Phone)
	assert.Equal(t, "Ana Torres", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)

	w = s.do(t, http.MethodGet, "/api/clientes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Customer](t, w), 1)

	w = s.do(t, http.MethodDelete, "/api/clientes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "customer deleted", message(t, w))

	w = s.do(t, http.MethodGet, "/api/clientes/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "customer not found", message(t, w))

	w = s.do(t, http.MethodDelete, "/api/clientes/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCustomerValidation(t *testing.T) {
	s := setupServer(t)
	s.seedCustomer(t, "taken@example.com")

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing phone", map[string]interface{}{"nombre": "Luis", "correo": "luis@example.com"}},
		{"invalid email", map[string]interface{}{"nombre": "Luis", "correo": "not-an-email", "telefono": "1"}},
		{"duplicate email", map[string]interface{}{"nombre": "Luis", "correo": "taken@example.com", "telefono": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/clientes", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, message(t, w))
		})
	}

	var n int64
	require.NoError(t, s.DB.Model(&models.Customer{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestInvalidIDAndUnknownRoute(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodGet, "/api/clientes/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", message(t, w))

	w = s.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route not found", message(t, w))

	w = s.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", message(t, w))
}
