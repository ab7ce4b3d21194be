package handlers

import (
	"github.com/gofiber/fiber/v3"

	ports "tcofront/internal/front/ports/services"
)

// ParamComparo параметр маршрута сравнения.
const ParamComparo = "comparo"

// ComparoHandler обработчики сравнений.
type ComparoHandler struct {
	svc       ports.ComparoService
	redirects *Redirects
}

// NewComparoHandler создает обработчик сравнений.
func NewComparoHandler(svc ports.ComparoService, redirects *Redirects) *ComparoHandler {
	return &ComparoHandler{svc: svc, redirects: redirects}
}

// List возвращает сравнения.
func (h *ComparoHandler) List(c fiber.Ctx) error {
	raw, err := h.svc.List(requestContext(c))
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendRaw(c, raw)
}

// Get возвращает сравнение.
func (h *ComparoHandler) Get(c fiber.Ctx) error {
	raw, err := h.svc.Get(requestContext(c), c.Params(ParamComparo))
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendRaw(c, raw)
}

// Create создает сравнение.
func (h *ComparoHandler) Create(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.Create(requestContext(c), body)
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendRaw(c, raw)
}

// Update изменяет сравнение.
func (h *ComparoHandler) Update(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.Update(requestContext(c), c.Params(ParamComparo), body)
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendRaw(c, raw)
}

// Delete удаляет сравнение.
func (h *ComparoHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(requestContext(c), c.Params(ParamComparo)); err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendNoContent(c)
}
