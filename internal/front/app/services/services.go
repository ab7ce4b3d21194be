// Package services содержит типизированные клиенты ресурсов API TCO.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"tcofront/internal/front/adapters/api"
	"tcofront/pkg/logger"
)

// ErrEmptyUUID возвращается без сетевого вызова для пустого идентификатора.
var ErrEmptyUUID = errors.New("uuid must not be empty")

// Константы для логирования.
const (
	LogRequestFailed = "resource request failed"
)

// Doer отправляет запросы через перехватчики клиента API.
type Doer interface {
	Do(ctx context.Context, req *api.Request) (*api.Response, error)
}

func requireUUIDs(ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrEmptyUUID
		}
	}
	return nil
}

func joinPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func call(ctx context.Context, c Doer, service string, req *api.Request) (json.RawMessage, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogRequestFailed,
			zap.String("service", service),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, err
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}
	return json.RawMessage(resp.Body), nil
}
