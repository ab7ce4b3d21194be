package handlers

import (
	"github.com/gofiber/fiber/v3"

	ports "tcofront/internal/front/ports/services"
)

// Параметры маршрутов каталога.
const (
	ParamCatalogue = "catalogue"
	ParamCategorie = "categorie"
	ParamVehicule  = "vehicule"
)

// CatalogueHandler обработчики каталогов, категорий и автомобилей.
type CatalogueHandler struct {
	svc       ports.CatalogueService
	redirects *Redirects
}

// NewCatalogueHandler создает обработчик каталогов.
func NewCatalogueHandler(svc ports.CatalogueService, redirects *Redirects) *CatalogueHandler {
	return &CatalogueHandler{svc: svc, redirects: redirects}
}

func (h *CatalogueHandler) reply(c fiber.Ctx, raw []byte, err error) error {
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendRaw(c, raw)
}

func (h *CatalogueHandler) deleted(c fiber.Ctx, err error) error {
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendNoContent(c)
}

// List возвращает каталоги.
func (h *CatalogueHandler) List(c fiber.Ctx) error {
	raw, err := h.svc.List(requestContext(c))
	return h.reply(c, raw, err)
}

// Get возвращает каталог.
func (h *CatalogueHandler) Get(c fiber.Ctx) error {
	raw, err := h.svc.Get(requestContext(c), c.Params(ParamCatalogue))
	return h.reply(c, raw, err)
}

// Create создает каталог.
func (h *CatalogueHandler) Create(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.Create(requestContext(c), body)
	return h.reply(c, raw, err)
}

// Update изменяет каталог.
func (h *CatalogueHandler) Update(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.Update(requestContext(c), c.Params(ParamCatalogue), body)
	return h.reply(c, raw, err)
}

// Delete удаляет каталог.
func (h *CatalogueHandler) Delete(c fiber.Ctx) error {
	return h.deleted(c, h.svc.Delete(requestContext(c), c.Params(ParamCatalogue)))
}

// GetAnalyse возвращает анализ каталога.
func (h *CatalogueHandler) GetAnalyse(c fiber.Ctx) error {
	raw, err := h.svc.GetAnalyse(requestContext(c), c.Params(ParamCatalogue))
	return h.reply(c, raw, err)
}

// Analyse запускает анализ каталога.
func (h *CatalogueHandler) Analyse(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.Analyse(requestContext(c), c.Params(ParamCatalogue), body)
	return h.reply(c, raw, err)
}

// GeneratePDF запрашивает PDF отчет каталога.
func (h *CatalogueHandler) GeneratePDF(c fiber.Ctx) error {
	raw, err := h.svc.GeneratePDF(requestContext(c), c.Params(ParamCatalogue))
	return h.reply(c, raw, err)
}

// Categories возвращает категории каталога.
func (h *CatalogueHandler) Categories(c fiber.Ctx) error {
	raw, err := h.svc.Categories(requestContext(c), c.Params(ParamCatalogue))
	return h.reply(c, raw, err)
}

// Categorie возвращает категорию.
func (h *CatalogueHandler) Categorie(c fiber.Ctx) error {
	raw, err := h.svc.Categorie(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie))
	return h.reply(c, raw, err)
}

// CreateCategorie создает категорию.
func (h *CatalogueHandler) CreateCategorie(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.CreateCategorie(requestContext(c), c.Params(ParamCatalogue), body)
	return h.reply(c, raw, err)
}

// UpdateCategorie изменяет категорию.
func (h *CatalogueHandler) UpdateCategorie(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.UpdateCategorie(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie), body)
	return h.reply(c, raw, err)
}

// DeleteCategorie удаляет категорию.
func (h *CatalogueHandler) DeleteCategorie(c fiber.Ctx) error {
	return h.deleted(c, h.svc.DeleteCategorie(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie)))
}

// Vehicules возвращает автомобили категории.
func (h *CatalogueHandler) Vehicules(c fiber.Ctx) error {
	raw, err := h.svc.Vehicules(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie))
	return h.reply(c, raw, err)
}

// Vehicule возвращает автомобиль.
func (h *CatalogueHandler) Vehicule(c fiber.Ctx) error {
	raw, err := h.svc.Vehicule(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie), c.Params(ParamVehicule))
	return h.reply(c, raw, err)
}

// CreateVehicule создает автомобиль.
func (h *CatalogueHandler) CreateVehicule(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.CreateVehicule(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie), body)
	return h.reply(c, raw, err)
}

// UpdateVehicule изменяет автомобиль.
func (h *CatalogueHandler) UpdateVehicule(c fiber.Ctx) error {
	body, err := rawBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	raw, err := h.svc.UpdateVehicule(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie), c.Params(ParamVehicule), body)
	return h.reply(c, raw, err)
}

// DeleteVehicule удаляет автомобиль.
func (h *CatalogueHandler) DeleteVehicule(c fiber.Ctx) error {
	return h.deleted(c, h.svc.DeleteVehicule(requestContext(c), c.Params(ParamCatalogue), c.Params(ParamCategorie), c.Params(ParamVehicule)))
}
