// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразное формирование структурированных полей лога
// в API-клиенте и хранилище сессии.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to restore session", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret маскирует чувствительное значение (bearer-токен, пароль),
// оставляя только несколько первых символов. Токен целиком в лог
// попадать не должен.
func Secret(key, value string) slog.Attr {
	const visible = 4
	masked := "***"
	if len(value) > visible {
		masked = value[:visible] + "***"
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
