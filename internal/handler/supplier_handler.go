package handler

import (
	"github.com/Sasaank79/Inventory-Management-System/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.CatalogService
}

func NewSupplierHandler(s service.CatalogService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var input service.SupplierInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	supplier, err := h.service.CreateSupplier(&input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "id": supplier.ID})
}
