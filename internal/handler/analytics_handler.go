package handler

import (
	"github.com/Sasaank79/Inventory-Management-System/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

func NewAnalyticsHandler(s service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

func (h *AnalyticsHandler) TopSelling(c *fiber.Ctx) error {
	rows, err := h.service.TopSelling(c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *AnalyticsHandler) LowStock(c *fiber.Ctx) error {
	rows, err := h.service.LowStock(c.QueryInt("threshold", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *AnalyticsHandler) StockValue(c *fiber.Ctx) error {
	value, err := h.service.StockValue()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total_stock_value": value})
}

func (h *AnalyticsHandler) RecentProducts(c *fiber.Ctx) error {
	rows, err := h.service.RecentProducts(c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *AnalyticsHandler) StockByCategory(c *fiber.Ctx) error {
	rows, err := h.service.StockByCategory()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *AnalyticsHandler) ProductsBySupplier(c *fiber.Ctx) error {
	rows, err := h.service.ProductsBySupplier()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *AnalyticsHandler) StockMovement(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}

	entries, err := h.service.StockMovement(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
