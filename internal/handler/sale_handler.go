package handler

import (
	"errors"
	"time"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// ProcessSale finalizes an in-person sale
// POST /api/v1/sales
func (h *SaleHandler) ProcessSale(c *fiber.Ctx) error {
	var req service.ProcessSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.saleService.ProcessSale(&req, actorFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDailyLimitReached):
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock),
			errors.Is(err, service.ErrFractionNotAllowed),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrNoItems):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(sale)
}

// GetSales lists sales; sellers only see their own
// GET /api/v1/sales?status=&date=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	filter := repository.SaleFilter{Status: c.Query("status")}
	if actor.Role == model.RoleSeller {
		filter.SellerID = &actor.ID
	} else if raw := c.Query("seller_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid seller_id"})
		}
		filter.SellerID = &id
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
		}
		filter.Date = &date
	}

	sales, err := h.saleService.GetSales(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"sales": sales, "count": len(sales)})
}

// GetSale returns a single sale with its items
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.saleService.GetSale(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	// Sellers may only open their own sales
	actor := actorFromCtx(c)
	if actor.Role == model.RoleSeller && sale.SellerID != actor.ID {
		return c.Status(403).JSON(fiber.Map{"error": "Sellers can only view their own sales"})
	}
	return c.JSON(sale)
}

// CancelSale reverses a completed sale and restores its stock
// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) CancelSale(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.saleService.CancelSale(id, actorFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSaleNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSaleNotCancelable):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sale)
}
