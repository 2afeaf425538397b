package handler

import (
	"errors"
	"strings"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetProducts lists products with optional filters
// GET /api/v1/products?search=&category_id=&status=&active=
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		ActiveOnly: c.Query("active") == "true",
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid category_id"})
		}
		filter.CategoryID = &id
	}

	products, err := h.catalogService.GetProducts(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// GetProduct returns a single product
// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(product)
}

// GetSellableProducts lists active products with stock, for the sale
// screen
// GET /api/v1/products/sellable
func (h *CatalogHandler) GetSellableProducts(c *fiber.Ctx) error {
	products, err := h.catalogService.GetSellableProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// SearchProducts does a quick lookup by name or code
// GET /api/v1/products/search?q=
func (h *CatalogHandler) SearchProducts(c *fiber.Ctx) error {
	products, err := h.catalogService.SearchProducts(strings.TrimSpace(c.Query("q")))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// ValidateQuantity checks a hypothetical sale quantity against stock
// GET /api/v1/products/:id/validate-quantity?quantity=
func (h *CatalogHandler) ValidateQuantity(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	quantity, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quantity"})
	}

	check, err := h.catalogService.ValidateQuantity(id, quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrFractionNotAllowed),
			errors.Is(err, service.ErrInsufficientStock):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(check)
}

// CreateProduct registers a new product
// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalogService.CreateProduct(&product, actorFromCtx(c)); err != nil {
		if errors.Is(err, service.ErrCodeExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(product)
}

// UpdateProduct edits a product, including stock adjustments
// PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalogService.UpdateProduct(id, &req, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(product)
}

// DeleteProduct soft-deletes a product
// DELETE /api/v1/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalogService.DeleteProduct(id, actorFromCtx(c)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Product removed successfully"})
}

// UploadProductImage stores a product picture under the media root
// POST /api/v1/products/:id/image
func (h *CatalogHandler) UploadProductImage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "image file is required"})
	}

	path, err := saveUpload(c, file, "products", allowedImageExts)
	if err != nil {
		if errors.Is(err, errBadFileType) {
			return c.Status(400).JSON(fiber.Map{"error": "Use JPG, JPEG, PNG or WEBP"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	product, err := h.catalogService.SetProductImage(id, path, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(product)
}

// GetCategories lists categories
// GET /api/v1/categories?active=
func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.GetCategories(c.Query("active") == "true")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"categories": categories, "count": len(categories)})
}

// CreateCategory registers a new category
// POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalogService.CreateCategory(&category, actorFromCtx(c)); err != nil {
		if errors.Is(err, service.ErrCategoryNameTaken) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(category)
}

// UpdateCategory edits a category
// PUT /api/v1/categories/:id
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	var req model.Category
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.catalogService.UpdateCategory(id, &req, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(category)
}

// DeleteCategory removes an empty category
// DELETE /api/v1/categories/:id
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := h.catalogService.DeleteCategory(id, actorFromCtx(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCategoryInUse):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Category removed successfully"})
}

// GetUnits lists units of measure
// GET /api/v1/units?active=
func (h *CatalogHandler) GetUnits(c *fiber.Ctx) error {
	units, err := h.catalogService.GetUnits(c.Query("active") == "true")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"units": units, "count": len(units)})
}

// CreateUnit registers a new unit of measure
// POST /api/v1/units
func (h *CatalogHandler) CreateUnit(c *fiber.Ctx) error {
	var unit model.UnitOfMeasure
	if err := c.BodyParser(&unit); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalogService.CreateUnit(&unit, actorFromCtx(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(unit)
}

// UpdateUnit edits a unit of measure
// PUT /api/v1/units/:id
func (h *CatalogHandler) UpdateUnit(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid unit ID"})
	}

	var req model.UnitOfMeasure
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	unit, err := h.catalogService.UpdateUnit(id, &req, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(unit)
}

// DeleteUnit removes an unused unit of measure
// DELETE /api/v1/units/:id
func (h *CatalogHandler) DeleteUnit(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid unit ID"})
	}

	if err := h.catalogService.DeleteUnit(id, actorFromCtx(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrUnitNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrUnitInUse):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Unit removed successfully"})
}
