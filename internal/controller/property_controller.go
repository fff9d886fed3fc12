package controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"realty_gateway/internal/model"
	"realty_gateway/pkg/schema"
)

type PropertyController struct {
	gw      Gateway
	schemas *schema.Validator
	log     *slog.Logger
}

func NewPropertyController(gw Gateway, schemas *schema.Validator, log *slog.Logger) *PropertyController {
	return &PropertyController{gw: gw, schemas: schemas, log: log}
}

// ListActive returns publicly visible listings.
func (pc *PropertyController) ListActive(c *fiber.Ctx) error {
	return c.JSON(pc.gw.FetchActiveProperties(c.UserContext()))
}

// ListAll returns every listing, including sold and pending ones.
func (pc *PropertyController) ListAll(c *fiber.Ctx) error {
	return c.JSON(pc.gw.FetchAllProperties(c.UserContext()))
}

func (pc *PropertyController) Get(c *fiber.Ctx) error {
	property := pc.gw.FetchPropertyByID(c.UserContext(), c.Params("id"))
	if property == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}
	return c.JSON(property)
}

func (pc *PropertyController) Create(c *fiber.Ctx) error {
	if ok, err := validateBody(c, pc.schemas, schema.Property); !ok {
		return err
	}

	input := new(model.NewPropertyData)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if out := pc.gw.AddProperty(c.UserContext(), *input); !out.OK {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Property created successfully",
	})
}

func (pc *PropertyController) Update(c *fiber.Ctx) error {
	if ok, err := validateBody(c, pc.schemas, schema.PropertyUpdate); !ok {
		return err
	}

	input := new(model.PropertyUpdate)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if out := pc.gw.UpdateProperty(c.UserContext(), c.Params("id"), *input); !out.OK {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update property",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Property updated successfully",
	})
}

func (pc *PropertyController) Delete(c *fiber.Ctx) error {
	out := pc.gw.DeleteProperty(c.UserContext(), c.Params("id"))
	if !out.OK {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Property deleted successfully",
		"warnings": warnings(out),
	})
}

// RecordView counts a page view. It always succeeds.
func (pc *PropertyController) RecordView(c *fiber.Ctx) error {
	out := pc.gw.TrackPropertyView(c.UserContext(), c.Params("id"), c.Get(fiber.HeaderUserAgent))
	if w := warnings(out); w != nil {
		pc.log.Debug("View tracked with failures", "property_id", c.Params("id"), "steps", w)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
