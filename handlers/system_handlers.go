package handlers

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports whether the store is reachable.
// GET /health
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		h.logger.Warn("Database ping failed", "error", err)
		return errorJSON(c, fiber.StatusServiceUnavailable, "Database ping failed")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "ok"})
}

// HandleVersion returns the module build information.
// GET /version
func (h *Handler) HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errorJSON(c, fiber.StatusInternalServerError, "No build information available")
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"path":      info.Main.Path,
			"version":   info.Main.Version,
			"goVersion": info.GoVersion,
			"settings":  settings,
		},
	})
}
