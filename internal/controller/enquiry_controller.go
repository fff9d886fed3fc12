package controller

import (
	"github.com/gofiber/fiber/v2"

	"realty_gateway/internal/model"
	"realty_gateway/pkg/schema"
)

type EnquiryController struct {
	gw      Gateway
	schemas *schema.Validator
}

func NewEnquiryController(gw Gateway, schemas *schema.Validator) *EnquiryController {
	return &EnquiryController{gw: gw, schemas: schemas}
}

func (ec *EnquiryController) Create(c *fiber.Ctx) error {
	if ok, err := validateBody(c, ec.schemas, schema.Enquiry); !ok {
		return err
	}

	input := new(model.EnquiryData)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if out := ec.gw.SubmitEnquiry(c.UserContext(), *input); !out.OK {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not submit enquiry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Enquiry submitted successfully",
	})
}

func (ec *EnquiryController) List(c *fiber.Ctx) error {
	return c.JSON(ec.gw.FetchEnquiries(c.UserContext()))
}
