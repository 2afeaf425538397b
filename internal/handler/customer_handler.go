package handler

import (
	"errors"

	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GetCustomers lists customers
// GET /api/v1/customers?search=&active=
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.customerService.GetCustomers(c.Query("search"), c.Query("active") == "true")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"customers": customers, "count": len(customers)})
}

// GetCustomer returns a customer with their purchase total
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	detail, err := h.customerService.GetCustomer(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}

// CreateCustomer registers a customer
// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, err := h.customerService.CreateCustomer(&req, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrCPFTaken) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(customer)
}

// UpdateCustomer edits a customer
// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, err := h.customerService.UpdateCustomer(id, &req, actorFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCPFTaken):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(customer)
}

// DeleteCustomer removes a customer without purchase history
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	if err := h.customerService.DeleteCustomer(id, actorFromCtx(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrHasPurchase):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Customer removed successfully"})
}
