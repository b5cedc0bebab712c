package handler

import (
	"studybuddy-ai/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the page and the /api group on app.
func RegisterRoutes(app *fiber.App, h *GenerationHandler, vm *middleware.ValidationMiddleware) {
	app.Get("/", h.Index)
	app.Post("/", h.Submit)

	api := app.Group("/api")
	api.Post("/generate", vm.ValidateGenerateRequest(), h.Generate)
	api.Get("/examples", h.GetExamples)
	api.Get("/health", h.Health)
}
