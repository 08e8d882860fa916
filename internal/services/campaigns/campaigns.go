// Package campaigns реализует доступ к рекламным кампаниям объявлений
// и отправку трекинговых событий.
package campaigns

import (
	"context"
	"fmt"
	"net/url"

	"github.com/estatery/realty-client/internal/api"
	"github.com/estatery/realty-client/internal/models"
)

const basePath = "/campaigns"

// Service — сервис работы с кампаниями.
type Service struct {
	client *api.Client
}

// New создает новый экземпляр Service.
func New(client *api.Client) *Service {
	return &Service{client: client}
}

type listResponse struct {
	Campaigns []models.Campaign `json:"campaigns"`
}

type itemResponse struct {
	Campaign *models.Campaign `json:"campaign"`
}

// List возвращает кампании текущего пользователя.
func (s *Service) List(ctx context.Context) ([]models.Campaign, error) {
	const op = "campaigns.Service.List"
	var resp listResponse
	if err := s.client.Get(ctx, basePath, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Campaigns, nil
}

// Get возвращает кампанию по идентификатору.
func (s *Service) Get(ctx context.Context, id string) (*models.Campaign, error) {
	const op = "campaigns.Service.Get"
	var resp itemResponse
	if err := s.client.Get(ctx, basePath+"/"+url.PathEscape(id), &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.Campaign, nil
}

// Track отправляет событие взаимодействия. Ответа, кроме статуса, нет.
func (s *Service) Track(ctx context.Context, event models.CampaignEvent) error {
	const op = "campaigns.Service.Track"
	if err := s.client.Post(ctx, basePath+"/track", event, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
