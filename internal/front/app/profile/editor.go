package profile

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"tcofront/internal/front/app/dto"
	"tcofront/internal/front/app/validation"
	"tcofront/pkg/logger"
)

// Тексты уведомлений.
const (
	TitleSaved          = "Profil mis à jour"
	DescriptionSaved    = "Vos informations ont été mises à jour avec succès."
	TitleSaveFailed     = "Erreur lors de la mise à jour"
	DescriptionFailed   = "Une erreur est survenue lors de la mise à jour de votre profil."
	TitleInvalid        = "Formulaire invalide"
	DefaultInvalidInput = "Veuillez vérifier les champs du formulaire."
)

// Константы для логирования.
const (
	LogProfileLoaded  = "profile form loaded"
	LogProfileInvalid = "profile form rejected by validation"
	LogProfileSaved   = "profile saved"
)

// UserStore источник профиля пользователя.
type UserStore interface {
	FetchProfile(ctx context.Context) dto.Result
	UpdateProfile(ctx context.Context, fields map[string]any) dto.Result
	HasComptableInfo() bool
}

// Editor состояние формы профиля.
type Editor struct {
	store     UserStore
	validator *validation.Validator

	mu            sync.Mutex
	form          Form
	showComptable bool
	saving        bool
}

// NewEditor создает редактор профиля.
func NewEditor(store UserStore, v *validation.Validator) *Editor {
	if v == nil {
		v = validation.New()
	}
	return &Editor{
		store:     store,
		validator: v,
		form:      Form{UserConnaissance: []string{}, UserOffre: []string{}},
	}
}

// Load загружает профиль и заполняет форму.
func (e *Editor) Load(ctx context.Context) dto.Result {
	res := e.store.FetchProfile(ctx)
	if !res.Success {
		return res
	}

	u, _ := res.Data.(map[string]any)
	if u == nil {
		return res
	}

	e.mu.Lock()
	e.form = FormFromUser(u)
	e.showComptable = e.store.HasComptableInfo()
	show := e.showComptable
	e.mu.Unlock()

	logger.Log(ctx).Debug(ctx, LogProfileLoaded, zap.Bool("comptable", show))
	return dto.OK(e.Form())
}

// Form возвращает копию формы.
func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()

	f := e.form
	f.UserConnaissance = slices.Clone(e.form.UserConnaissance)
	f.UserOffre = slices.Clone(e.form.UserOffre)
	return f
}

// SetForm заменяет состояние формы. Пока блок бухгалтера скрыт, его поля остаются пустыми.
func (e *Editor) SetForm(f Form) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.showComptable {
		f.ClearComptable()
	}
	e.form = f
}

// ShowComptableInfo сообщает, показан ли блок бухгалтера.
func (e *Editor) ShowComptableInfo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.showComptable
}

// ToggleComptableInfo показывает или скрывает блок бухгалтера.
// Скрытие очищает поля, повторное включение их не восстанавливает.
func (e *Editor) ToggleComptableInfo(show bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.showComptable = show
	if !show {
		e.form.ClearComptable()
	}
}

// Saving сообщает, что идет сохранение.
func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// Save проверяет форму и отправляет изменения.
func (e *Editor) Save(ctx context.Context) (dto.Result, dto.Notification) {
	e.mu.Lock()
	form := e.form
	show := e.showComptable
	e.saving = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.saving = false
		e.mu.Unlock()
	}()

	if err := e.validator.Struct(form); err != nil {
		msg := DefaultInvalidInput
		var verr *validation.Error
		if errors.As(err, &verr) && verr.First() != "" {
			msg = verr.First()
		}
		logger.Log(ctx).Debug(ctx, LogProfileInvalid, zap.Error(err))
		return dto.Fail(msg), dto.Notification{Level: dto.LevelError, Title: TitleInvalid, Description: msg}
	}

	res := e.store.UpdateProfile(ctx, form.Payload(show))
	if !res.Success {
		desc := res.Error
		if desc == "" {
			desc = DescriptionFailed
		}
		return res, dto.Notification{Level: dto.LevelError, Title: TitleSaveFailed, Description: desc}
	}

	logger.Log(ctx).Info(ctx, LogProfileSaved)
	return res, dto.Notification{Level: dto.LevelSuccess, Title: TitleSaved, Description: DescriptionSaved}
}
