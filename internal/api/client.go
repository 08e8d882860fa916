// Package api реализует единый HTTP-транспорт клиента маркетплейса.
//
// Каждый запрос проходит через две ступени: декоратор запроса
// (подстановка bearer-заголовка) и классификатор ответа (перевод статуса
// в категорию ошибки). На статус 401 клиент реагирует глобально —
// сбрасывает токен в памяти до того, как ошибка уйдёт вызывающему коду.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/estatery/realty-client/internal/config"
	"github.com/estatery/realty-client/internal/lib/sl"
	"github.com/estatery/realty-client/internal/metrics"
	"github.com/estatery/realty-client/internal/tokenstore"
)

// Читаем из тела ошибки не больше этого объёма.
const maxErrorBody = 64 << 10

// Client — настроенный HTTP-транспорт: базовый URL, таймаут,
// bearer-токен в памяти. Повторов запросов нет, это забота вызывающего.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	tokens     tokenstore.Store // Запасное чтение токена, может быть nil
	limiter    *rate.Limiter    // Клиентский троттлинг, может быть nil
	metrics    *metrics.ClientMetrics

	mu    sync.RWMutex
	token string
}

// Option настраивает необязательные зависимости клиента.
type Option func(*Client)

// WithTokenFallback задаёт долговременное хранилище, из которого Token()
// читает токен, если в памяти его нет. Клиент сам в хранилище не пишет.
func WithTokenFallback(store tokenstore.Store) Option {
	return func(c *Client) { c.tokens = store }
}

// WithRateLimit включает клиентское ограничение частоты запросов.
// Нулевой rps оставляет ограничение выключенным.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMetrics включает сбор prometheus-метрик запросов.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New создаёт клиент с настройками транспорта из конфига.
func New(cfg config.APIClient, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken сохраняет токен в памяти. В долговременное хранилище токен
// не попадает — этим управляет хранилище сессии.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token возвращает токен из памяти, а при его отсутствии пытается
// прочитать долговременное хранилище. Запасной путь нужен, если память
// была сброшена без полного перезапуска.
func (c *Client) Token(ctx context.Context) string {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" || c.tokens == nil {
		return token
	}
	stored, err := c.tokens.Get(ctx)
	if err != nil {
		return ""
	}
	return stored
}

// Logout сбрасывает токен только в памяти. Удаление из долговременного
// хранилища — ответственность вызывающего.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Get выполняет GET-запрос и декодирует 2xx-ответ в out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post выполняет POST-запрос с JSON-телом.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put выполняет PUT-запрос с JSON-телом.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch выполняет PATCH-запрос с JSON-телом.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete выполняет DELETE-запрос.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Декоратор запроса: bearer-заголовок подставляется, только если
	// токен есть в памяти.
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	const op = "api.Client.do"

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{
				Kind:    KindTransport,
				Method:  method,
				Path:    path,
				Message: "request canceled while throttled",
				Err:     fmt.Errorf("%s: %w", op, err),
			}
		}
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return &Error{
			Kind:    KindValidation,
			Method:  method,
			Path:    path,
			Message: "failed to build request",
			Err:     fmt.Errorf("%s: %w", op, err),
		}
	}

	c.log.Debug("api request",
		slog.String("method", method),
		slog.String("path", path),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Observe(method, 0, time.Since(start))
		c.log.Error("api transport failure",
			slog.String("method", method),
			slog.String("path", path),
			sl.Err(err),
		)
		return &Error{
			Kind:    KindTransport,
			Method:  method,
			Path:    path,
			Message: "request failed: no response received",
			Err:     fmt.Errorf("%s: %w", op, err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.Observe(method, resp.StatusCode, time.Since(start))
	c.log.Debug("api response",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	return c.classify(resp, method, path, out)
}

// classify — классификатор ответа: переводит статус в категорию ошибки
// и декодирует тело успешного ответа.
func (c *Client) classify(resp *http.Response, method, path string, out any) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Глобальная реакция на 401: токен в памяти сбрасывается до
		// того, как ошибка уйдёт вызывающему. Долговременное хранилище
		// не трогаем, его чистит хранилище сессии при полном logout.
		c.Logout()
		c.log.Warn("unauthorized response, dropping in-memory token",
			slog.String("method", method),
			slog.String("path", path),
		)
		return &Error{
			Kind:    KindUnauthorized,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: serverMessage(resp.Body, resp.StatusCode),
		}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &Error{
			Kind:    KindServer,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: serverMessage(resp.Body, resp.StatusCode),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:    KindUnknown,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: "malformed response body",
			Err:     err,
		}
	}
	return nil
}

// serverMessage достаёт сообщение из тела ошибки формата {"error": "..."}.
// Если тело нечитаемо, возвращает текст по статусу.
func serverMessage(body io.Reader, status int) string {
	fallback := fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))

	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return fallback
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}
	switch {
	case payload.Error != "":
		return payload.Error
	case payload.Message != "":
		return payload.Message
	}
	return fallback
}
