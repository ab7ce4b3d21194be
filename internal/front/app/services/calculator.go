package services

import (
	"context"
	"encoding/json"
	"net/http"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/app/dto"
	"tcofront/internal/front/app/validation"
)

const (
	taxPath = "/api/calculateur-taxe"
	aenPath = "/api/calculette-aen"
)

// CalculatorService передает расчеты налогов и AEN на сервер.
type CalculatorService struct {
	client    Doer
	validator *validation.Validator
}

// NewCalculatorService создает сервис калькуляторов.
func NewCalculatorService(client Doer, v *validation.Validator) *CalculatorService {
	return &CalculatorService{client: client, validator: v}
}

// CalculateTaxes рассчитывает налоги. Некорректный ввод не уходит в сеть.
func (s *CalculatorService) CalculateTaxes(ctx context.Context, in dto.TaxRequest) (json.RawMessage, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	return call(ctx, s.client, "calculator", &api.Request{
		Method: http.MethodPost, Path: taxPath, Body: in, ContentType: api.ContentTypeJSON,
	})
}

// CalculateAen рассчитывает взносы AEN. Некорректный ввод не уходит в сеть.
func (s *CalculatorService) CalculateAen(ctx context.Context, in dto.AenRequest) (json.RawMessage, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	return call(ctx, s.client, "calculator", &api.Request{
		Method: http.MethodPost, Path: aenPath, Body: in, ContentType: api.ContentTypeJSON,
	})
}
