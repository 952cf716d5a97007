package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
)

// Mode - режим сессии
type Mode string

const (
	// ModeAuthenticated - сессия с токеном, выданным сервером
	ModeAuthenticated Mode = "authenticated"

	// ModeOffline - сервер недоступен; токена нет, данные недоступны
	ModeOffline Mode = "offline"
)

// Session - результат входа
type Session struct {
	Mode      Mode
	Token     string
	User      *domain.User
	ExpiresAt time.Time

	// Cause - сетевая ошибка, из-за которой сессия офлайн
	Cause error
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Login выполняет вход. Если сервер недоступен и офлайн режим разрешен,
// возвращается сессия ModeOffline; ответы сервера с ошибкой офлайн сессию не создают.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) || !c.allowOffline {
			return nil, err
		}

		session := &Session{Mode: ModeOffline, Cause: err}
		c.setSession(session)
		return session, nil
	}

	session := &Session{
		Mode:      ModeAuthenticated,
		Token:     resp.Token,
		User:      resp.User,
		ExpiresAt: resp.ExpiresAt,
	}
	c.setSession(session)
	return session, nil
}

// Logout отзывает токен на сервере и сбрасывает локальное состояние.
// Офлайн сессия сбрасывается без обращения к серверу.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.token()
	if err != nil && !errors.Is(err, ErrOffline) {
		return err
	}

	if token != "" {
		if err := c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil); err != nil {
			return err
		}
	}

	c.setSession(nil)
	return nil
}

// Session возвращает текущую сессию или nil
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Me возвращает пользователя текущего токена
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// setSession меняет сессию; снимок предыдущей сессии отбрасывается
func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	c.snapshot = Snapshot{Stale: true}
	c.dismissed = map[string]bool{}
}
