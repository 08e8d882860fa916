package models

import "time"

// Статусы объявления.
const (
	PropertyStatusActive   = "active"
	PropertyStatusSold     = "sold"
	PropertyStatusArchived = "archived"
)

// Property представляет объявление о продаже или аренде недвижимости.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`    // Цена в минимальных единицах валюты
	Currency    string    `json:"currency"` // Код валюты, например SAR
	Type        string    `json:"type"`     // apartment, villa, land, office
	Status      string    `json:"status"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        float64   `json:"area"` // Площадь в квадратных метрах
	City        string    `json:"city"`
	District    string    `json:"district,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PropertyFilter представляет параметры фильтрации списка объявлений.
// Указатели означают "фильтр не задан" — такие поля не попадают в запрос.
type PropertyFilter struct {
	City     string // Город (пустая строка — без фильтра)
	Type     string // Тип объекта
	MinPrice *int64 // Нижняя граница цены
	MaxPrice *int64 // Верхняя граница цены
	Bedrooms *int   // Точное количество спален
}

// PropertyDraft — данные для создания или обновления объявления
// в административной панели.
type PropertyDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency"`
	Type        string   `json:"type"`
	Status      string   `json:"status,omitempty"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Area        float64  `json:"area"`
	City        string   `json:"city"`
	District    string   `json:"district,omitempty"`
	Images      []string `json:"images,omitempty"`
}
