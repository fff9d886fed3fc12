package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"realty_gateway/internal/gateway"
	"realty_gateway/internal/model"
	"realty_gateway/pkg/schema"
)

// Gateway is the property data gateway as seen by the HTTP handlers.
type Gateway interface {
	FetchActiveProperties(ctx context.Context) []model.Property
	FetchAllProperties(ctx context.Context) []model.Property
	FetchPropertyByID(ctx context.Context, id string) *model.Property
	AddProperty(ctx context.Context, data model.NewPropertyData) gateway.Outcome
	UpdateProperty(ctx context.Context, id string, data model.PropertyUpdate) gateway.Outcome
	DeleteProperty(ctx context.Context, id string) gateway.Outcome
	TrackPropertyView(ctx context.Context, id, userAgent string) gateway.Outcome
	SubmitEnquiry(ctx context.Context, e model.EnquiryData) gateway.Outcome
	FetchEnquiries(ctx context.Context) []datatypes.JSONMap
	SubscribeToNewsletter(ctx context.Context, email string, name *string) gateway.Outcome
	FetchNewsletterSubscriptions(ctx context.Context) []datatypes.JSONMap
	UploadImage(ctx context.Context, file gateway.ImageFile, folder string) (string, bool)
}

// validateBody checks the raw request body against a schema and writes the
// 400 response itself. ok is false when the handler must stop.
func validateBody(c *fiber.Ctx, schemas *schema.Validator, name string) (bool, error) {
	if err := schemas.Validate(name, c.Body()); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid input",
			"details": schema.Details(err),
		})
	}
	return true, nil
}

// warnings lists the best-effort steps that failed, or nil.
func warnings(out gateway.Outcome) []string {
	if len(out.Secondary) == 0 {
		return nil
	}
	list := make([]string, 0, len(out.Secondary))
	for _, s := range out.Secondary {
		list = append(list, s.Step)
	}
	return list
}
