package services

import (
	"context"
	"encoding/json"
	"net/http"

	"tcofront/internal/front/adapters/api"
)

const shareDataPath = "/api/shareData"

// SiteDataService загружает общие данные сайта.
type SiteDataService struct {
	client Doer
}

// NewSiteDataService создает сервис общих данных.
func NewSiteDataService(client Doer) *SiteDataService {
	return &SiteDataService{client: client}
}

// GetShareData возвращает общие данные сайта.
func (s *SiteDataService) GetShareData(ctx context.Context) (json.RawMessage, error) {
	return call(ctx, s.client, "site_data", &api.Request{Method: http.MethodGet, Path: shareDataPath})
}
