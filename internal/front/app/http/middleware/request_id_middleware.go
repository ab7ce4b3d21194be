package middleware

import (
	"github.com/gofiber/fiber/v3"

	"tcofront/internal/front/adapters/api"
	"tcofront/pkg/logger"
)

// NewRequestIDMiddleware создает контекст запроса с X-Request-ID.
// Идентификатор из заголовка сохраняется, иначе генерируется новый.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(api.HeaderRequestID)
		if id == "" {
			id = logger.GenerateRequestID()
		}

		c.Set(api.HeaderRequestID, id)
		c.Locals(LocalRequestContext, logger.NewRequestIDContext(c.Context(), id))

		return c.Next()
	}
}
