package handlers

import (
	"github.com/gofiber/fiber/v3"

	"tcofront/internal/front/app/dto"
	ports "tcofront/internal/front/ports/services"
)

// CalculatorHandler обработчики калькуляторов.
type CalculatorHandler struct {
	svc       ports.CalculatorService
	redirects *Redirects
}

// NewCalculatorHandler создает обработчик калькуляторов.
func NewCalculatorHandler(svc ports.CalculatorService, redirects *Redirects) *CalculatorHandler {
	return &CalculatorHandler{svc: svc, redirects: redirects}
}

// Taxes рассчитывает налоги.
func (h *CalculatorHandler) Taxes(c fiber.Ctx) error {
	var req dto.TaxRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.CalculateTaxes(requestContext(c), req)
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendRaw(c, raw)
}

// Aen рассчитывает взносы AEN.
func (h *CalculatorHandler) Aen(c fiber.Ctx) error {
	var req dto.AenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.CalculateAen(requestContext(c), req)
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendRaw(c, raw)
}
