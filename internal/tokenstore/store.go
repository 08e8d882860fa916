// Package tokenstore реализует долговременное хранилище bearer-токена,
// переживающее перезапуск клиента. Токен хранится как единственная
// непрозрачная строка под фиксированным ключом пространства имён:
// последняя запись побеждает, версионирования нет.
package tokenstore

import (
	"context"
	"errors"
)

// ErrNotFound возвращается, когда сохранённого токена нет.
// Отсутствие токена — штатная ситуация (пользователь не входил),
// вызывающий код различает её через errors.Is.
var ErrNotFound = errors.New("token not found")

// Store описывает контракт долговременного хранилища токена.
type Store interface {
	// Get возвращает сохранённый токен или ErrNotFound.
	Get(ctx context.Context) (string, error)

	// Set сохраняет токен, затирая предыдущее значение.
	Set(ctx context.Context, token string) error

	// Delete удаляет токен. Повторное удаление не является ошибкой.
	Delete(ctx context.Context) error
}
