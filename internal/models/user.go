// Package models содержит доменные модели клиента маркетплейса недвижимости:
// пользователя, объект недвижимости, заявку на обратную связь и рекламную кампанию.
// Структуры используются слоем API-клиента и сервисами ресурсов.
package models

// Роли пользователя, которые возвращает бэкенд.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет аутентифицированного пользователя сервиса.
type User struct {
	ID     string `json:"id"`               // Уникальный идентификатор пользователя
	Email  string `json:"email"`            // Электронная почта
	Name   string `json:"name"`             // Отображаемое имя
	Role   string `json:"role"`             // Роль пользователя, admin или user
	Avatar string `json:"avatar,omitempty"` // URL аватара (опционально)
}

// IsAdmin сообщает, имеет ли пользователь административную роль.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserPatch описывает частичное обновление профиля.
// Поля со значением nil бэкенд не изменяет.
type UserPatch struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// RegisterRequest — данные для создания учётной записи.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
