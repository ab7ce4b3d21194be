// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// LocalRequestContext ключ Locals с контекстом запроса.
const LocalRequestContext = "requestContext"

// RequestContext возвращает контекст запроса с идентификатором и логгером.
func RequestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(LocalRequestContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}
