// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Клиент рассматривает bearer-токен как непрозрачную строку; этот пакет
// нужен тестовому бэкенду (internal/testutil), который выпускает и
// проверяет реалистичные токены для сквозных сценариев.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserID               string `json:"uid"`   // Идентификатор пользователя
	Email                string `json:"email"` // Электронная почта
	Role                 string `json:"role"`  // Роль пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(userID, email, role string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken создает JWT токен с заданными данными пользователя,
// подписывая его секретным ключом. Время жизни определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(userID, email, role string) (string, error) {
	claims := CustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
