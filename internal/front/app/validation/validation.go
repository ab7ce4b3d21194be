// Package validation проверяет входные данные до обращения к сети.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError ошибка одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error список ошибок полей.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// First возвращает сообщение первой ошибки.
func (e *Error) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Message
}

// Validator обертка над validator.Validate с именами полей из json тегов.
type Validator struct {
	v *validator.Validate
}

// New создает валидатор.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct проверяет структуру. Ошибки полей возвращаются как *Error.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Var проверяет одно значение по тегу.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Ce champ est obligatoire"
	case "email":
		return "Adresse e-mail invalide"
	case "len":
		return "Doit contenir exactement " + e.Param() + " caractères"
	case "numeric":
		return "Doit être numérique"
	case "oneof":
		return "Doit être l'une des valeurs : " + e.Param()
	case "gte":
		return "Doit être supérieur ou égal à " + e.Param()
	case "lte":
		return "Doit être inférieur ou égal à " + e.Param()
	case "gt":
		return "Doit être supérieur à " + e.Param()
	case "nefield":
		return "Doit être différent de l'ancien mot de passe"
	default:
		return "Valeur invalide"
	}
}
