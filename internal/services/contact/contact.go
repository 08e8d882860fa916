// Package contact реализует отправку заявки на обратную связь.
//
// Поля заявки проверяются валидатором до ухода на сеть: некорректная
// заявка не порождает запроса вовсе.
package contact

import (
	"context"
	"fmt"

	"github.com/go-playground/validator"

	"github.com/estatery/realty-client/internal/api"
)

const basePath = "/contact"

// Request — заявка посетителя. Телефон опционален, сообщение ограничено
// разумной длиной.
type Request struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Message    string `json:"message" validate:"required,min=10,max=2000"`
	PropertyID string `json:"property_id,omitempty"`
}

// Service — сервис отправки заявок.
type Service struct {
	client   *api.Client
	validate *validator.Validate
}

// New создает новый экземпляр Service с инициализированным валидатором.
func New(client *api.Client) *Service {
	return &Service{
		client:   client,
		validate: validator.New(),
	}
}

type submitResponse struct {
	ID string `json:"id"`
}

// Submit проверяет заявку и отправляет её. Возвращает идентификатор,
// присвоенный бэкендом.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	const op = "contact.Service.Submit"

	if err := s.validate.Struct(req); err != nil {
		return "", &api.Error{
			Kind:    api.KindValidation,
			Method:  "POST",
			Path:    basePath,
			Message: "invalid contact request: " + err.Error(),
			Err:     fmt.Errorf("%s: %w", op, err),
		}
	}

	var resp submitResponse
	if err := s.client.Post(ctx, basePath, req, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return resp.ID, nil
}
