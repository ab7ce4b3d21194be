// Package handlers содержит HTTP обработчики локального сервера TCO.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/app/dto"
	"tcofront/internal/front/app/services"
	"tcofront/internal/front/app/session"
	"tcofront/internal/front/app/validation"
	"tcofront/internal/front/resilience"
	"tcofront/pkg/logger"
)

// Сообщения об ошибках для пользователя.
const (
	ErrorInvalidRequest     = "Requête invalide"
	ErrorSessionExpired     = "Session expirée"
	ErrorNotAuthenticated   = "Utilisateur non authentifié"
	ErrorServiceUnavailable = "Service temporairement indisponible"
	ErrorUpstream           = "Erreur du serveur distant"
)

// Константы для логирования.
const (
	LogInvalidRequest = "invalid request body"
	LogSendFailed     = "failed to send response"
)

type errorBody struct {
	Success  bool                    `json:"success"`
	Error    string                  `json:"error"`
	Fields   []validation.FieldError `json:"fields,omitempty"`
	Redirect string                  `json:"redirect,omitempty"`
}

func send(c fiber.Ctx, status int, body any) error {
	if err := c.Status(status).JSON(body); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// sendRaw отдает ответ API без повторной сериализации.
func sendRaw(c fiber.Ctx, raw json.RawMessage) error {
	if len(raw) == 0 {
		return send(c, http.StatusOK, dto.OK(nil))
	}
	return send(c, http.StatusOK, dto.OK(raw))
}

func sendNoContent(c fiber.Ctx) error {
	if err := c.SendStatus(http.StatusNoContent); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

func badRequest(c fiber.Ctx, err error) error {
	requestCtx := requestContext(c)
	logger.Log(requestCtx).Debug(requestCtx, LogInvalidRequest, zap.Error(err))
	return send(c, http.StatusBadRequest, errorBody{Error: ErrorInvalidRequest})
}

// sendError переводит ошибку приложения в HTTP ответ.
func sendError(c fiber.Ctx, redirects *Redirects, err error) error {
	var (
		verr   *validation.Error
		apierr *api.Error
	)

	switch {
	case errors.As(err, &verr):
		return send(c, http.StatusBadRequest, errorBody{Error: verr.First(), Fields: verr.Fields})
	case errors.Is(err, services.ErrEmptyUUID):
		return send(c, http.StatusBadRequest, errorBody{Error: ErrorInvalidRequest})
	case errors.Is(err, api.ErrSessionExpired), errors.Is(err, session.ErrRefreshFailed):
		redirects.Take()
		return send(c, http.StatusUnauthorized, errorBody{Error: ErrorSessionExpired, Redirect: api.SessionExpiredRoute()})
	case errors.Is(err, api.ErrNotAuthenticated):
		return send(c, http.StatusUnauthorized, errorBody{Error: ErrorNotAuthenticated, Redirect: api.LoginRoute})
	case errors.Is(err, resilience.ErrCircuitOpen):
		return send(c, http.StatusServiceUnavailable, errorBody{Error: ErrorServiceUnavailable})
	case errors.As(err, &apierr) && apierr.StatusCode >= 400 && apierr.StatusCode < 500:
		return send(c, apierr.StatusCode, errorBody{Error: api.MessageOf(err, ErrorUpstream)})
	default:
		return send(c, http.StatusBadGateway, errorBody{Error: ErrorUpstream})
	}
}

// sendResult отдает dto.Result. Неуспех после завершения сессии превращается в 401.
func sendResult(c fiber.Ctx, redirects *Redirects, res dto.Result) error {
	if res.Success {
		return send(c, http.StatusOK, res)
	}
	if route := redirects.Take(); route != "" {
		return send(c, http.StatusUnauthorized, errorBody{Error: res.Error, Redirect: route})
	}
	return send(c, http.StatusBadRequest, res)
}

func rawBody(c fiber.Ctx) (json.RawMessage, error) {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, errors.New("body is not valid JSON")
	}
	return bytes.Clone(body), nil
}
