package services

import (
	"context"
	"encoding/json"
	"net/http"

	"tcofront/internal/front/adapters/api"
)

const cataloguePath = "/api/tco/catalogue"

// CatalogueService работает с каталогами, их категориями и транспортными средствами.
type CatalogueService struct {
	client Doer
}

// NewCatalogueService создает сервис каталогов.
func NewCatalogueService(client Doer) *CatalogueService {
	return &CatalogueService{client: client}
}

func (s *CatalogueService) do(ctx context.Context, method, path string, body any, contentType string) (json.RawMessage, error) {
	return call(ctx, s.client, "catalogue", &api.Request{Method: method, Path: path, Body: body, ContentType: contentType})
}

// List возвращает все каталоги пользователя.
func (s *CatalogueService) List(ctx context.Context) (json.RawMessage, error) {
	return s.do(ctx, http.MethodGet, cataloguePath, nil, "")
}

// Get возвращает каталог.
func (s *CatalogueService) Get(ctx context.Context, uuid string) (json.RawMessage, error) {
	if err := requireUUIDs(uuid); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, joinPath(cataloguePath, uuid), nil, "")
}

// Create создает каталог.
func (s *CatalogueService) Create(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	return s.do(ctx, http.MethodPost, cataloguePath, data, api.ContentTypeJSONAPI)
}

// Update изменяет каталог.
func (s *CatalogueService) Update(ctx context.Context, uuid string, data json.RawMessage) (json.RawMessage, error) {
	if err := requireUUIDs(uuid); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPatch, joinPath(cataloguePath, uuid), data, api.ContentTypeJSONAPI)
}

// Delete удаляет каталог.
func (s *CatalogueService) Delete(ctx context.Context, uuid string) error {
	if err := requireUUIDs(uuid); err != nil {
		return err
	}
	_, err := s.do(ctx, http.MethodDelete, joinPath(cataloguePath, uuid), nil, "")
	return err
}

// GetAnalyse возвращает результаты анализа каталога.
func (s *CatalogueService) GetAnalyse(ctx context.Context, uuid string) (json.RawMessage, error) {
	if err := requireUUIDs(uuid); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, joinPath(cataloguePath, uuid, "analyse"), nil, "")
}

// Analyse запускает анализ каталога. Пустые данные отправляются как {}.
func (s *CatalogueService) Analyse(ctx context.Context, uuid string, data json.RawMessage) (json.RawMessage, error) {
	if err := requireUUIDs(uuid); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	return s.do(ctx, http.MethodPost, joinPath(cataloguePath, uuid, "analyse"), data, api.ContentTypeJSON)
}

// GeneratePDF запускает генерацию PDF анализа.
func (s *CatalogueService) GeneratePDF(ctx context.Context, uuid string) (json.RawMessage, error) {
	if err := requireUUIDs(uuid); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, joinPath(cataloguePath, uuid, "pdf"), nil, "")
}

// Categories возвращает категории каталога.
func (s *CatalogueService) Categories(ctx context.Context, catalogue string) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, joinPath(cataloguePath, catalogue, "categories"), nil, "")
}

// Categorie возвращает категорию.
func (s *CatalogueService) Categorie(ctx context.Context, catalogue, categorie string) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue, categorie); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, joinPath(cataloguePath, catalogue, "categories", categorie), nil, "")
}

// CreateCategorie создает категорию в каталоге.
func (s *CatalogueService) CreateCategorie(ctx context.Context, catalogue string, data json.RawMessage) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, joinPath(cataloguePath, catalogue, "categorie"), data, api.ContentTypeJSONAPI)
}

// UpdateCategorie изменяет категорию.
func (s *CatalogueService) UpdateCategorie(ctx context.Context, catalogue, categorie string, data json.RawMessage) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue, categorie); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPatch, joinPath(cataloguePath, catalogue, "categories", categorie), data, api.ContentTypeJSONAPI)
}

// DeleteCategorie удаляет категорию.
func (s *CatalogueService) DeleteCategorie(ctx context.Context, catalogue, categorie string) error {
	if err := requireUUIDs(catalogue, categorie); err != nil {
		return err
	}
	_, err := s.do(ctx, http.MethodDelete, joinPath(cataloguePath, catalogue, "categories", categorie), nil, "")
	return err
}

// Vehicules возвращает транспортные средства категории.
func (s *CatalogueService) Vehicules(ctx context.Context, catalogue, categorie string) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue, categorie); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, joinPath(cataloguePath, catalogue, "categories", categorie, "vehicules"), nil, "")
}

// Vehicule возвращает транспортное средство.
func (s *CatalogueService) Vehicule(ctx context.Context, catalogue, categorie, vehicule string) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue, categorie, vehicule); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, joinPath(cataloguePath, catalogue, "categories", categorie, "vehicules", vehicule), nil, "")
}

// CreateVehicule создает транспортное средство в категории.
func (s *CatalogueService) CreateVehicule(ctx context.Context, catalogue, categorie string, data json.RawMessage) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue, categorie); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, joinPath(cataloguePath, catalogue, "categories", categorie, "vehicule"), data, api.ContentTypeJSONAPI)
}

// UpdateVehicule изменяет транспортное средство.
func (s *CatalogueService) UpdateVehicule(ctx context.Context, catalogue, categorie, vehicule string, data json.RawMessage) (json.RawMessage, error) {
	if err := requireUUIDs(catalogue, categorie, vehicule); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPatch, joinPath(cataloguePath, catalogue, "categories", categorie, "vehicules", vehicule), data, api.ContentTypeJSONAPI)
}

// DeleteVehicule удаляет транспортное средство.
func (s *CatalogueService) DeleteVehicule(ctx context.Context, catalogue, categorie, vehicule string) error {
	if err := requireUUIDs(catalogue, categorie, vehicule); err != nil {
		return err
	}
	_, err := s.do(ctx, http.MethodDelete, joinPath(cataloguePath, catalogue, "categories", categorie, "vehicules", vehicule), nil, "")
	return err
}
