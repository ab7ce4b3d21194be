package services

import (
	"context"
	"encoding/json"
	"net/http"

	"tcofront/internal/front/adapters/api"
)

const comparoPath = "/api/tco/comparo"

// ComparoService работает со сравнениями.
type ComparoService struct {
	client Doer
}

// NewComparoService создает сервис сравнений.
func NewComparoService(client Doer) *ComparoService {
	return &ComparoService{client: client}
}

func (s *ComparoService) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	req := &api.Request{Method: method, Path: path, Body: body}
	if body != nil {
		req.ContentType = api.ContentTypeJSONAPI
	}
	return call(ctx, s.client, "comparo", req)
}

// List возвращает все сравнения пользователя.
func (s *ComparoService) List(ctx context.Context) (json.RawMessage, error) {
	return s.do(ctx, http.MethodGet, comparoPath, nil)
}

// Get возвращает сравнение.
func (s *ComparoService) Get(ctx context.Context, uuid string) (json.RawMessage, error) {
	if err := requireUUIDs(uuid); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, joinPath(comparoPath, uuid), nil)
}

// Create создает сравнение.
func (s *ComparoService) Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return s.do(ctx, http.MethodPost, comparoPath, data)
}

// Update изменяет сравнение.
func (s *ComparoService) Update(ctx context.Context, uuid string, data json.RawMessage) (json.RawMessage, error) {
	if err := requireUUIDs(uuid); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPatch, joinPath(comparoPath, uuid), data)
}

// Delete удаляет сравнение.
func (s *ComparoService) Delete(ctx context.Context, uuid string) error {
	if err := requireUUIDs(uuid); err != nil {
		return err
	}
	_, err := s.do(ctx, http.MethodDelete, joinPath(comparoPath, uuid), nil)
	return err
}
