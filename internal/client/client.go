// Package client - типизированный клиент FleetFlow API.
// Клиент держит локальный снимок коллекций, который считается устаревшим до следующего Refresh;
// источником истины всегда остается сервер.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
)

// ErrOffline - операция недоступна в офлайн сессии
var ErrOffline = errors.New("offline session: server data is unavailable")

// ErrNoSession - вызов до Login
var ErrNoSession = errors.New("not logged in")

// APIError - ответ сервера с ошибкой
type APIError struct {
	Status  int                 `json:"-"`
	Message string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// envelope - обертка успешного ответа
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Client - клиент API с локальным снимком данных
type Client struct {
	baseURL      string
	httpClient   *http.Client
	allowOffline bool

	mu        sync.RWMutex
	session   *Session
	snapshot  Snapshot
	dismissed map[string]bool
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient подменяет HTTP клиент
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithOfflineFallback разрешает офлайн сессию при недоступности сервера на входе
func WithOfflineFallback() Option {
	return func(c *Client) { c.allowOffline = true }
}

// New создает клиент для сервера baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		snapshot:  Snapshot{Stale: true},
		dismissed: map[string]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// token возвращает токен текущей сессии
func (c *Client) token() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.session == nil:
		return "", ErrNoSession
	case c.session.Mode == ModeOffline:
		return "", ErrOffline
	}
	return c.session.Token, nil
}

// call выполняет авторизованный запрос
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, body, out)
}

// do отправляет запрос и разбирает обертку ответа в out
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}
