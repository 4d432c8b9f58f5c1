package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnavm03/storedesk/internal/query"
	"github.com/arnavm03/storedesk/internal/services"
)

// ProductHandler exposes the product catalog. Reads are public; mutation
// routes are gated to admin and superadmin by middleware.
type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		return respondError(c, err, "product list failed", errMessages{
			Internal: "Failed to fetch products",
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "product fetch failed", errMessages{
			NotFound: "Product not found",
			Internal: "Failed to fetch product",
		})
	}
	return c.JSON(fiber.Map{"product": product})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	product, err := h.products.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err, "product create failed", errMessages{
			Duplicate: "Product with this SKU already exists",
			Internal:  "Failed to create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"product": fiber.Map{
			"id":    product.ID,
			"name":  product.Name,
			"price": product.Price,
			"sku":   product.SKU,
		},
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	product, err := h.products.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err, "product update failed", errMessages{
			NotFound:  "Product not found",
			Duplicate: "Product with this SKU already exists",
			Internal:  "Failed to update product",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, "product delete failed", errMessages{
			NotFound: "Product not found",
			Internal: "Failed to delete product",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var params query.Params
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	products, pagination, err := h.products.Search(c.Context(), params)
	if err != nil {
		return respondError(c, err, "product search failed", errMessages{
			Internal: "Failed to search products",
		})
	}

	return c.JSON(fiber.Map{
		"products":   products,
		"pagination": pagination,
	})
}

func (h *ProductHandler) Seed(c *fiber.Ctx) error {
	created, err := h.products.Seed(c.Context())
	if err != nil {
		return respondError(c, err, "product seed failed", errMessages{
			Internal: "Failed to create seed data",
		})
	}

	if created == 0 {
		return c.JSON(fiber.Map{"message": "Sample products already exist"})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Sample products created successfully",
		"count":   created,
	})
}
