package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"

	"tcofront/internal/front/app/dto"
	ports "tcofront/internal/front/ports/services"
)

// ErrorSiteDataKeyNotFound ключ отсутствует в общих данных.
const ErrorSiteDataKeyNotFound = "Clé introuvable"

// SiteDataHandler обработчики общих данных сайта.
type SiteDataHandler struct {
	cache     ports.SiteDataCache
	redirects *Redirects
}

// NewSiteDataHandler создает обработчик общих данных.
func NewSiteDataHandler(cache ports.SiteDataCache, redirects *Redirects) *SiteDataHandler {
	return &SiteDataHandler{cache: cache, redirects: redirects}
}

func (h *SiteDataHandler) ensure(c fiber.Ctx) (bool, error) {
	if h.cache.FetchIfNeeded(requestContext(c)) {
		return true, nil
	}
	return false, sendResult(c, h.redirects, dto.Fail(h.cache.Error()))
}

// Get возвращает общие данные, загружая их при необходимости.
func (h *SiteDataHandler) Get(c fiber.Ctx) error {
	ok, err := h.ensure(c)
	if !ok {
		return err
	}
	return sendRaw(c, h.cache.Data())
}

// Nested возвращает вложенное значение по пути /a/b/c.
func (h *SiteDataHandler) Nested(c fiber.Ctx) error {
	ok, err := h.ensure(c)
	if !ok {
		return err
	}

	var keys []string
	for _, k := range strings.Split(c.Params("*"), "/") {
		if k != "" {
			keys = append(keys, k)
		}
	}

	raw, found := h.cache.Nested(keys...)
	if !found {
		return send(c, http.StatusNotFound, dto.Fail(ErrorSiteDataKeyNotFound))
	}
	return sendRaw(c, raw)
}
