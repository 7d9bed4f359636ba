package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/logging"
	"inventory/metrics"
)

func TestErrorHandler_Envelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Nop())})
	app.Use(RequestLogger(logging.Nop(), metrics.New()))
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	cases := []struct {
		path    string
		status  int
		message string
	}{
		{"/boom", 500, "Internal Server Error"},
		{"/teapot", 418, "short and stout"},
		{"/missing", 404, "Cannot GET /missing"},
	}

	for _, c := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", c.path, nil))
		require.NoError(t, err)
		assert.Equal(t, c.status, resp.StatusCode, c.path)

		body, _ := io.ReadAll(resp.Body)
		var env map[string]string
		require.NoError(t, json.Unmarshal(body, &env))
		assert.Equal(t, "error", env["status"])
		assert.Equal(t, c.message, env["message"])
	}
}
