package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func TestErrorHandlerBodyLimit(t *testing.T) {
	app := fiber.New(fiber.Config{
		BodyLimit:    8,
		ErrorHandler: ErrorHandler(),
	})
	app.Post("/enviar-mensaje", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/enviar-mensaje", bytes.NewReader(make([]byte, 64)))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := decodeBody(t, resp)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.NotEmpty(t, decoded["error"])
}

func TestErrorHandlerDefaultsTo500(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("stream closed")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := decodeBody(t, resp)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "stream closed", decoded["error"])
}
