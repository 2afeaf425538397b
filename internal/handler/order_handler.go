package handler

import (
	"errors"
	"time"

	"pdv-backend/internal/repository"
	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func orderErrStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound):
		return 404
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrOrderTerminal),
		errors.Is(err, service.ErrProofAlreadySent):
		return 409
	}
	return 400
}

// CreateOrder places a remote order
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.CreateOrder(&req, actorFromCtx(c))
	if err != nil {
		return c.Status(orderErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(order)
}

// GetOrders lists orders; sellers only see today's
// GET /api/v1/orders?search=&status=&date=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	filter := repository.OrderFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
		}
		filter.Date = &date
	}

	orders, err := h.orderService.GetOrders(filter, actorFromCtx(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}

// GetOrderStats summarizes order counts and value per status
// GET /api/v1/orders/stats
func (h *OrderHandler) GetOrderStats(c *fiber.Ctx) error {
	stats, err := h.orderService.GetOrderStats(repository.OrderFilter{})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

// GetOrder returns a single order with its items
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		// Fall back to order code lookup for human-friendly links
		order, codeErr := h.orderService.GetOrderByCode(c.Params("id"))
		if codeErr != nil {
			return c.Status(404).JSON(fiber.Map{"error": codeErr.Error()})
		}
		return c.JSON(order)
	}

	order, err := h.orderService.GetOrder(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(order)
}

// UploadPaymentProof attaches the proof file to a pending order
// POST /api/v1/orders/:id/payment-proof
func (h *OrderHandler) UploadPaymentProof(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	file, err := c.FormFile("payment_proof")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "payment_proof file is required"})
	}

	path, err := saveUpload(c, file, "payment_proofs", allowedProofExts)
	if err != nil {
		if errors.Is(err, errBadFileType) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := h.orderService.AttachPaymentProof(id, path, actorFromCtx(c))
	if err != nil {
		return c.Status(orderErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(order)
}

// ConfirmOrder verifies payment and takes stock
// POST /api/v1/orders/:id/confirm
func (h *OrderHandler) ConfirmOrder(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orderService.ConfirmOrder(id, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrInsufficientStock) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(orderErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(order)
}

// UpdateOrderStatus moves an order along the fulfillment chain
// PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "status is required"})
	}

	order, err := h.orderService.AdvanceStatus(id, req.Status, actorFromCtx(c))
	if err != nil {
		return c.Status(orderErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(order)
}

// CancelOrder cancels an order, restoring stock when already taken
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	order, err := h.orderService.CancelOrder(id, req.Reason, actorFromCtx(c))
	if err != nil {
		return c.Status(orderErrStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(order)
}
