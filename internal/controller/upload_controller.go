package controller

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"realty_gateway/internal/gateway"
	"realty_gateway/pkg/utils/image"
	"realty_gateway/pkg/utils/validation"
)

type UploadController struct {
	gw       Gateway
	optimize bool
	log      *slog.Logger
}

func NewUploadController(gw Gateway, optimize bool, log *slog.Logger) *UploadController {
	return &UploadController{gw: gw, optimize: optimize, log: log}
}

// UploadPropertyImage stores the multipart "image" file under the optional
// "folder" form value and returns its public URL.
func (uc *UploadController) UploadPropertyImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.ErrFileRequired.Error(),
		})
	}

	contentType, err := validation.ValidateImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}

	if uc.optimize {
		optimized, ct, err := image.Optimize(data)
		if err != nil {
			uc.log.Warn("Could not optimize image, uploading original", "file", file.Filename, "error", err)
		} else {
			data, contentType = optimized, ct
		}
	}

	url, ok := uc.gw.UploadImage(c.UserContext(), gateway.ImageFile{
		Name:        file.Filename,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
	}, c.FormValue("folder"))
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Image uploaded successfully",
		"url":     url,
	})
}
