// Package dto содержит структуры обмена между UI и сервисами.
package dto

// Result единый результат асинхронных операций.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK создает успешный результат.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail создает неуспешный результат.
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Уровни уведомлений.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notification всплывающее уведомление для UI.
type Notification struct {
	Level       string `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
