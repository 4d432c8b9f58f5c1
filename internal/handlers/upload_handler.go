package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arnavm03/storedesk/internal/storage"
)

// UploadHandler stores product and profile images in object storage and
// returns the URL to record against the entity.
type UploadHandler struct {
	storage *storage.Storage
}

func NewUploadHandler(s *storage.Storage) *UploadHandler {
	return &UploadHandler{storage: s}
}

func (h *UploadHandler) Image(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image file is required"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only image uploads are allowed"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("image open failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
	}
	defer file.Close()

	objectName := fmt.Sprintf("%s_%s", uuid.NewString(), fileHeader.Filename)
	url, err := h.storage.UploadImage(c.Context(), objectName, file, fileHeader.Size, contentType)
	if err != nil {
		logrus.WithError(err).Error("image upload failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	return c.JSON(fiber.Map{"success": true, "url": url})
}
