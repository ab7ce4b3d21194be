// Package services описывает операции приложения, которые использует HTTP слой.
package services

import (
	"context"
	"encoding/json"

	"tcofront/internal/front/app/dto"
	"tcofront/internal/front/app/profile"
	"tcofront/internal/front/app/session"
)

// SessionService жизненный цикл сессии.
type SessionService interface {
	Login(ctx context.Context, identifier, secret string) error
	AutoConnect(ctx context.Context, bootstrapToken string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	Snapshot() session.Session
	IsAuthenticated() bool
}

// CatalogueService каталоги, категории и автомобили.
type CatalogueService interface {
	List(ctx context.Context) (json.RawMessage, error)
	Get(ctx context.Context, uuid string) (json.RawMessage, error)
	Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, uuid string, data json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, uuid string) error
	GetAnalyse(ctx context.Context, uuid string) (json.RawMessage, error)
	Analyse(ctx context.Context, uuid string, data json.RawMessage) (json.RawMessage, error)
	GeneratePDF(ctx context.Context, uuid string) (json.RawMessage, error)

	Categories(ctx context.Context, catalogue string) (json.RawMessage, error)
	Categorie(ctx context.Context, catalogue, categorie string) (json.RawMessage, error)
	CreateCategorie(ctx context.Context, catalogue string, data json.RawMessage) (json.RawMessage, error)
	UpdateCategorie(ctx context.Context, catalogue, categorie string, data json.RawMessage) (json.RawMessage, error)
	DeleteCategorie(ctx context.Context, catalogue, categorie string) error

	Vehicules(ctx context.Context, catalogue, categorie string) (json.RawMessage, error)
	Vehicule(ctx context.Context, catalogue, categorie, vehicule string) (json.RawMessage, error)
	CreateVehicule(ctx context.Context, catalogue, categorie string, data json.RawMessage) (json.RawMessage, error)
	UpdateVehicule(ctx context.Context, catalogue, categorie, vehicule string, data json.RawMessage) (json.RawMessage, error)
	DeleteVehicule(ctx context.Context, catalogue, categorie, vehicule string) error
}

// ComparoService сравнения.
type ComparoService interface {
	List(ctx context.Context) (json.RawMessage, error)
	Get(ctx context.Context, uuid string) (json.RawMessage, error)
	Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, uuid string, data json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, uuid string) error
}

// CalculatorService калькуляторы налогов и AEN.
type CalculatorService interface {
	CalculateTaxes(ctx context.Context, in dto.TaxRequest) (json.RawMessage, error)
	CalculateAen(ctx context.Context, in dto.AenRequest) (json.RawMessage, error)
}

// SiteDataCache общие данные сайта.
type SiteDataCache interface {
	FetchIfNeeded(ctx context.Context) bool
	Data() json.RawMessage
	Nested(keys ...string) (json.RawMessage, bool)
	Error() string
}

// UserStore профиль и пароль пользователя.
type UserStore interface {
	FetchProfile(ctx context.Context) dto.Result
	ChangePassword(ctx context.Context, current, next string) dto.Result
	ChangePasswordAfterAutoConnect(ctx context.Context, next string) dto.Result
	Reset()
}

// ProfileEditor форма профиля.
type ProfileEditor interface {
	Load(ctx context.Context) dto.Result
	Form() profile.Form
	SetForm(f profile.Form)
	ShowComptableInfo() bool
	ToggleComptableInfo(show bool)
	Save(ctx context.Context) (dto.Result, dto.Notification)
}
