package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"tcofront/internal/front/app/dto"
	"tcofront/internal/front/app/profile"
	"tcofront/internal/front/app/validation"
	ports "tcofront/internal/front/ports/services"
)

// ProfileView состояние формы профиля. Также тело запроса сохранения.
type ProfileView struct {
	Form              profile.Form `json:"form"`
	ShowComptableInfo bool         `json:"showComptableInfo"`
}

// ComptableToggle тело запроса переключения блока бухгалтера.
type ComptableToggle struct {
	Show bool `json:"show"`
}

// SaveResponse результат сохранения с уведомлением.
type SaveResponse struct {
	dto.Result
	Notification dto.Notification `json:"notification"`
}

// ProfileHandler обработчики профиля и пароля.
type ProfileHandler struct {
	editor    ports.ProfileEditor
	users     ports.UserStore
	validator *validation.Validator
	redirects *Redirects
}

// NewProfileHandler создает обработчик профиля.
func NewProfileHandler(editor ports.ProfileEditor, users ports.UserStore, v *validation.Validator, redirects *Redirects) *ProfileHandler {
	return &ProfileHandler{editor: editor, users: users, validator: v, redirects: redirects}
}

func (h *ProfileHandler) view() ProfileView {
	return ProfileView{Form: h.editor.Form(), ShowComptableInfo: h.editor.ShowComptableInfo()}
}

// User возвращает профиль пользователя из API.
func (h *ProfileHandler) User(c fiber.Ctx) error {
	return sendResult(c, h.redirects, h.users.FetchProfile(requestContext(c)))
}

// Load загружает форму профиля.
func (h *ProfileHandler) Load(c fiber.Ctx) error {
	res := h.editor.Load(requestContext(c))
	if !res.Success {
		return sendResult(c, h.redirects, res)
	}
	return send(c, http.StatusOK, dto.OK(h.view()))
}

// Form возвращает текущее состояние формы без обращения к API.
func (h *ProfileHandler) Form(c fiber.Ctx) error {
	return send(c, http.StatusOK, dto.OK(h.view()))
}

// ToggleComptable показывает или скрывает блок бухгалтера.
func (h *ProfileHandler) ToggleComptable(c fiber.Ctx) error {
	var req ComptableToggle
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	h.editor.ToggleComptableInfo(req.Show)
	return send(c, http.StatusOK, dto.OK(h.view()))
}

// Save сохраняет форму профиля.
func (h *ProfileHandler) Save(c fiber.Ctx) error {
	var req ProfileView
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}

	h.editor.ToggleComptableInfo(req.ShowComptableInfo)
	h.editor.SetForm(req.Form)

	res, note := h.editor.Save(requestContext(c))
	if !res.Success {
		if route := h.redirects.Take(); route != "" {
			return send(c, http.StatusUnauthorized, errorBody{Error: res.Error, Redirect: route})
		}
		return send(c, http.StatusBadRequest, SaveResponse{Result: res, Notification: note})
	}
	return send(c, http.StatusOK, SaveResponse{Result: res, Notification: note})
}

// ChangePassword меняет пароль.
func (h *ProfileHandler) ChangePassword(c fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendResult(c, h.redirects, h.users.ChangePassword(requestContext(c), req.CurrentPassword, req.NewPassword))
}

// ResetPassword задает пароль после автоматического входа.
func (h *ProfileHandler) ResetPassword(c fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return sendError(c, h.redirects, err)
	}
	return sendResult(c, h.redirects, h.users.ChangePasswordAfterAutoConnect(requestContext(c), req.NewPassword))
}
