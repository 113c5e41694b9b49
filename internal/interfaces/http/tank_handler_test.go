package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// El llenado drena inventario y puede generar deuda: solo admin.
func TestLlenarTanques_RolUser_Prohibido(t *testing.T) {
	app := buildPaymentsApp(newStubPaymentRepo())

	resp := postJSON(t, app, "/api/tanks/fill", tokenForRole(t, "user"), fiber.Map{
		"botellones": 2,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"user no debe poder ejecutar el llenado")
}
