package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Ошибки клиента API.
var (
	// ErrNotAuthenticated возвращается без сетевого вызова, когда у сессии нет ни одного токена.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired возвращается после второго 403 подряд для одного запроса.
	ErrSessionExpired = errors.New("session expired")
	// ErrEmptyBaseURL возвращается при пустом адресе API.
	ErrEmptyBaseURL = errors.New("api base url is required")
	// ErrEmptyToken возвращается, когда API ответил без токена.
	ErrEmptyToken = errors.New("api returned an empty token")
)

// Error описывает ответ API с кодом вне диапазона 2xx.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Message поле message из тела ответа, если оно есть.
	Message string
	Body    []byte
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, StatusCode: status, Body: body}

	var payload struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Message
	}
	return e
}

// StatusCode возвращает HTTP код из цепочки ошибок или 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// MessageOf возвращает сообщение API из цепочки ошибок или fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsForbidden сообщает, что ошибка соответствует HTTP 403.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
