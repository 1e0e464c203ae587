package handler

import (
	"github.com/Sasaank79/Inventory-Management-System/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	service service.StockService
}

func NewTransactionHandler(s service.StockService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var input service.TransactionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	record, err := h.service.ValidateAndAppend(&input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "id": record.ID})
}

// GetTransactions returns recent ledger rows, newest first, capped at 100.
// Optional filter: product_id.
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	productID := c.QueryInt("product_id", 0)
	if productID < 0 {
		productID = 0
	}

	transactions, err := h.service.RecentTransactions(uint(productID), 100)
	if err != nil {
		return respondError(c, err)
	}

	output := make([]fiber.Map, 0, len(transactions))
	for _, t := range transactions {
		output = append(output, fiber.Map{
			"id":           t.ID,
			"product_name": t.Product.Name,
			"quantity":     t.Quantity,
			"type":         t.TransactionType,
			"date":         t.TransactionDate,
			"notes":        t.Notes,
		})
	}
	return c.JSON(output)
}
