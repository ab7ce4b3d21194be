package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"tcofront/internal/front/app/dto"
	"tcofront/internal/front/app/session"
	"tcofront/internal/front/app/validation"
	ports "tcofront/internal/front/ports/services"
	"tcofront/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerLogin       = "auth handler: login"
	LogHandlerAutoConnect = "auth handler: auto-connect"
	LogHandlerRefresh     = "auth handler: refresh" // #nosec G101 - not a credential
	LogHandlerLogout      = "auth handler: logout"
	LogHandlerForgot      = "auth handler: forgot password"
)

// SessionView состояние сессии для UI.
type SessionView struct {
	Authenticated bool `json:"authenticated"`
	session.Session
	Redirect string `json:"redirect,omitempty"`
}

// Resetter сбрасывает кэш, зависящий от пользователя.
type Resetter interface {
	Reset()
}

// AuthHandler обработчики входа и выхода.
type AuthHandler struct {
	sessions  ports.SessionService
	validator *validation.Validator
	redirects *Redirects
	resetters []Resetter
}

// NewAuthHandler создает обработчик авторизации. resetters сбрасываются при выходе.
func NewAuthHandler(sessions ports.SessionService, v *validation.Validator, redirects *Redirects, resetters ...Resetter) *AuthHandler {
	return &AuthHandler{sessions: sessions, validator: v, redirects: redirects, resetters: resetters}
}

func (h *AuthHandler) view() SessionView {
	snap := h.sessions.Snapshot()
	return SessionView{Authenticated: snap.Authenticated(), Session: snap}
}

// Session возвращает текущее состояние сессии и ожидающий переход.
func (h *AuthHandler) Session(c fiber.Ctx) error {
	v := h.view()
	v.Redirect = h.redirects.Take()
	return send(c, http.StatusOK, v)
}

// Login обрабатывает вход по логину и паролю.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	requestCtx := requestContext(c)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return sendError(c, h.redirects, err)
	}

	if err := h.sessions.Login(requestCtx, req.Login, req.Password); err != nil {
		log.Debug(requestCtx, LogHandlerLogin, zap.Error(err))
		return send(c, http.StatusUnauthorized, dto.Fail(h.sessions.Snapshot().LastError))
	}

	h.redirects.Take()
	return send(c, http.StatusOK, dto.OK(h.view()))
}

// AutoConnect обменивает одноразовый токен на сессию.
func (h *AuthHandler) AutoConnect(c fiber.Ctx) error {
	requestCtx := requestContext(c)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerAutoConnect)

	var req dto.AutoConnectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return sendError(c, h.redirects, err)
	}

	if err := h.sessions.AutoConnect(requestCtx, req.Token); err != nil {
		log.Debug(requestCtx, LogHandlerAutoConnect, zap.Error(err))
		return send(c, http.StatusUnauthorized, dto.Fail(h.sessions.Snapshot().LastError))
	}

	h.redirects.Take()
	return send(c, http.StatusOK, dto.OK(h.view()))
}

// Refresh принудительно обновляет токены. Неудача завершает сессию.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	requestCtx := requestContext(c)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerRefresh)

	if err := h.sessions.Refresh(requestCtx); err != nil {
		h.reset()
		return sendError(c, h.redirects, err)
	}
	return send(c, http.StatusOK, dto.OK(h.view()))
}

// Logout завершает сессию.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	requestCtx := requestContext(c)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerLogout)

	err := h.sessions.Logout(requestCtx)
	h.reset()
	if err != nil {
		return sendError(c, h.redirects, err)
	}
	return send(c, http.StatusOK, dto.OK(nil))
}

// ForgotPassword запрашивает письмо для сброса пароля.
func (h *AuthHandler) ForgotPassword(c fiber.Ctx) error {
	requestCtx := requestContext(c)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerForgot)

	var req dto.ForgotPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return sendError(c, h.redirects, err)
	}

	if err := h.sessions.ForgotPassword(requestCtx, req.Email); err != nil {
		return send(c, http.StatusBadRequest, dto.Fail(h.sessions.Snapshot().LastError))
	}
	return send(c, http.StatusOK, dto.OK(nil))
}

func (h *AuthHandler) reset() {
	for _, r := range h.resetters {
		r.Reset()
	}
}
