package middleware

import (
	"github.com/gofiber/fiber/v3"

	"tcofront/internal/front/adapters/api"
	"tcofront/pkg/logger"
)

// Константы для логирования.
const (
	LogNotAuthenticated = "request rejected: no session"

	ErrorNotAuthenticated = "Utilisateur non authentifié"
)

// AuthChecker сообщает, есть ли активная сессия.
type AuthChecker interface {
	IsAuthenticated() bool
}

// NewSessionMiddleware пропускает запрос только при активной сессии.
func NewSessionMiddleware(auth AuthChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		if auth.IsAuthenticated() {
			return c.Next()
		}

		requestCtx := RequestContext(c)
		logger.Log(requestCtx).Debug(requestCtx, LogNotAuthenticated)

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success":  false,
			"error":    ErrorNotAuthenticated,
			"redirect": api.LoginRoute,
		})
	}
}
