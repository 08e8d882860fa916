// Package properties реализует типизированный доступ к объявлениям
// недвижимости поверх общего API-клиента: публичный каталог и
// административные CRUD-операции. Специальной обработки транспорта
// здесь нет — все вызовы проходят через общие методы клиента.
package properties

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/estatery/realty-client/internal/api"
	"github.com/estatery/realty-client/internal/models"
)

const basePath = "/properties"

// Service — сервис работы с объявлениями.
type Service struct {
	client *api.Client
}

// New создает новый экземпляр Service.
func New(client *api.Client) *Service {
	return &Service{client: client}
}

type listResponse struct {
	Properties []models.Property `json:"properties"`
}

type itemResponse struct {
	Property *models.Property `json:"property"`
}

// encodeFilter собирает query-параметры из заданных полей фильтра.
// Незаданные поля в запрос не попадают.
func encodeFilter(filter models.PropertyFilter) string {
	values := url.Values{}
	if filter.City != "" {
		values.Set("city", filter.City)
	}
	if filter.Type != "" {
		values.Set("type", filter.Type)
	}
	if filter.MinPrice != nil {
		values.Set("min_price", strconv.FormatInt(*filter.MinPrice, 10))
	}
	if filter.MaxPrice != nil {
		values.Set("max_price", strconv.FormatInt(*filter.MaxPrice, 10))
	}
	if filter.Bedrooms != nil {
		values.Set("bedrooms", strconv.Itoa(*filter.Bedrooms))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// List возвращает объявления, удовлетворяющие фильтру.
func (s *Service) List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	const op = "properties.Service.List"
	var resp listResponse
	if err := s.client.Get(ctx, basePath+encodeFilter(filter), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Properties, nil
}

// Search выполняет полнотекстовый поиск по объявлениям.
func (s *Service) Search(ctx context.Context, query string) ([]models.Property, error) {
	const op = "properties.Service.Search"
	var resp listResponse
	path := basePath + "/search?q=" + url.QueryEscape(query)
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Properties, nil
}

// Get возвращает объявление по идентификатору.
func (s *Service) Get(ctx context.Context, id string) (*models.Property, error) {
	const op = "properties.Service.Get"
	var resp itemResponse
	if err := s.client.Get(ctx, basePath+"/"+url.PathEscape(id), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Property, nil
}

// Create создаёт объявление. Требует административного токена.
func (s *Service) Create(ctx context.Context, draft models.PropertyDraft) (*models.Property, error) {
	const op = "properties.Service.Create"
	var resp itemResponse
	if err := s.client.Post(ctx, basePath, draft, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Property, nil
}

// Update обновляет объявление целиком.
func (s *Service) Update(ctx context.Context, id string, draft models.PropertyDraft) (*models.Property, error) {
	const op = "properties.Service.Update"
	var resp itemResponse
	if err := s.client.Put(ctx, basePath+"/"+url.PathEscape(id), draft, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Property, nil
}

// Delete удаляет объявление.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "properties.Service.Delete"
	if err := s.client.Delete(ctx, basePath+"/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
