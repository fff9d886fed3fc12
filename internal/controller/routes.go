package controller

import (
	"github.com/gofiber/fiber/v2"

	"realty_gateway/internal/middleware"
	"realty_gateway/pkg/utils/jwt"
)

type Handlers struct {
	Auth       *AuthController
	Properties *PropertyController
	Enquiries  *EnquiryController
	Newsletter *NewsletterController
	Uploads    *UploadController
}

func SetupRoutes(app *fiber.App, h Handlers, tokens *jwt.Manager) {
	api := app.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)

	// Public
	api.Get("/properties", h.Properties.ListActive)
	api.Get("/properties/:id", h.Properties.Get)
	api.Post("/properties/:id/view", h.Properties.RecordView)
	api.Post("/enquiries", h.Enquiries.Create)
	api.Post("/newsletter/subscribe", h.Newsletter.Subscribe)

	// Admin
	admin := api.Group("/admin", middleware.AuthMiddleware(tokens))
	admin.Get("/me", h.Auth.Me)

	properties := admin.Group("/properties")
	properties.Get("/", h.Properties.ListAll)
	properties.Post("/", h.Properties.Create)
	properties.Put("/:id", h.Properties.Update)
	properties.Delete("/:id", h.Properties.Delete)

	admin.Post("/uploads", h.Uploads.UploadPropertyImage)
	admin.Get("/enquiries", h.Enquiries.List)
	admin.Get("/newsletter", h.Newsletter.List)
}
