package models

import "time"

// Campaign представляет рекламную кампанию объявления.
type Campaign struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Name       string    `json:"name"`
	Channel    string    `json:"channel"` // web, social, email
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Active     bool      `json:"active"`
}

// CampaignEvent — событие взаимодействия с кампанией (показ, клик),
// отправляется на трекинговый эндпоинт.
type CampaignEvent struct {
	CampaignID string `json:"campaign_id"`
	Kind       string `json:"kind"` // impression или click
}
