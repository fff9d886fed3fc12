package controller

import (
	"github.com/gofiber/fiber/v2"

	"realty_gateway/pkg/schema"
)

type NewsletterSubscriptionInput struct {
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

type NewsletterController struct {
	gw      Gateway
	schemas *schema.Validator
}

func NewNewsletterController(gw Gateway, schemas *schema.Validator) *NewsletterController {
	return &NewsletterController{gw: gw, schemas: schemas}
}

func (nc *NewsletterController) Subscribe(c *fiber.Ctx) error {
	if ok, err := validateBody(c, nc.schemas, schema.Newsletter); !ok {
		return err
	}

	input := new(NewsletterSubscriptionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if out := nc.gw.SubscribeToNewsletter(c.UserContext(), input.Email, input.Name); !out.OK {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not subscribe to newsletter",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Successfully subscribed to newsletter",
	})
}

// List returns the active subscriptions.
func (nc *NewsletterController) List(c *fiber.Ctx) error {
	return c.JSON(nc.gw.FetchNewsletterSubscriptions(c.UserContext()))
}
