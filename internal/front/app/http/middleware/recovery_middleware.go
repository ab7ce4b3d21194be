package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tcofront/pkg/logger"
)

// Константы для логирования.
const (
	LogServerPanic        = "server panic"
	LogPanicResponseError = "failed to send error response after panic"

	ErrorInternal = "Internal Server Error"
)

// NewRecoveryMiddleware создает промежуточное ПО для восстановления после паники.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		requestCtx := RequestContext(c)

		defer func() {
			if r := recover(); r != nil {
				log := logger.Log(requestCtx)
				log.Error(requestCtx, LogServerPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				if sendErr := c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": ErrorInternal,
				}); sendErr != nil {
					log.Error(requestCtx, LogPanicResponseError, zap.Error(sendErr))
				}
				err = nil
			}
		}()

		return c.Next()
	}
}
