package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxRequestID struct{}

// NewRequestIDContext связывает запрос с идентификатором. Пустой id заменяется новым UUID.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, ctxRequestID{}, requestID)
}

// GetRequestID возвращает идентификатор запроса, если он был задан.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxRequestID{}).(string)
	return id, ok && id != ""
}

// RequestIDOrNew возвращает идентификатор из контекста или новый, если его нет.
// Новый идентификатор в контекст не записывается.
func RequestIDOrNew(ctx context.Context) string {
	if id, ok := GetRequestID(ctx); ok {
		return id
	}
	return GenerateRequestID()
}

// GenerateRequestID UUID v4 в каноническом виде.
func GenerateRequestID() string {
	return uuid.New().String()
}

// WithRequestID добавляет поле request_id, если контекст его несет.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	id, ok := GetRequestID(ctx)
	if !ok {
		return l
	}
	return l.With(zap.String(RequestID, id))
}
