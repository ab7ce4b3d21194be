package handlers

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tcofront/internal/front/app/http/middleware"
	"tcofront/pkg/logger"
)

// LogNavigate сообщение о переходе, запрошенном перехватчиком.
const LogNavigate = "navigation requested"

// Redirects запоминает последний переход, запрошенный перехватчиком API.
// Обработчики забирают его и отдают клиенту в поле redirect.
type Redirects struct {
	mu      sync.Mutex
	pending string
}

// NewRedirects создает пустой журнал переходов.
func NewRedirects() *Redirects {
	return &Redirects{}
}

// Navigate реализует api.Navigator.
func (r *Redirects) Navigate(ctx context.Context, route string) {
	logger.Log(ctx).Info(ctx, LogNavigate, zap.String("route", route))

	r.mu.Lock()
	r.pending = route
	r.mu.Unlock()
}

// Take возвращает и сбрасывает ожидающий переход.
func (r *Redirects) Take() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	route := r.pending
	r.pending = ""
	return route
}

func requestContext(c fiber.Ctx) context.Context {
	return middleware.RequestContext(c)
}
