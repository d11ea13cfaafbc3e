package api

import (
	"CaseKeeper/internal/cli/repo"
	"CaseKeeper/internal/handlers"
	"CaseKeeper/internal/middleware"
	"CaseKeeper/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized — сервер требует вход (login).
var ErrUnauthorized = errors.New("unauthorized: run login first")

// Client — HTTP-клиент сервера картотеки.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  repo.TokenStore
}

func NewClient(baseURL string, tokens repo.TokenStore) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Tokens:  tokens,
	}
}

// DoJSON отправляет JSON-запрос. Если token непустой, он передаётся как auth cookie.
func (c *Client) DoJSON(ctx context.Context, method, path string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Cookie", middleware.CookieName+"="+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, b, nil
}

func (c *Client) token() string {
	if c.Tokens == nil {
		return ""
	}
	t, _ := c.Tokens.Load()
	return t
}

// call выполняет запрос и декодирует ответ в out, переводя HTTP-статусы в ошибки сервиса.
func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	resp, body, err := c.DoJSON(ctx, method, path, payload, c.token())
	if err != nil {
		return err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		return nil
	}

	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &e)
	msg := e.Error
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return &service.ValidationError{Message: msg}
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return service.ErrNotFound
	default:
		return fmt.Errorf("server status %d: %s", resp.StatusCode, msg)
	}
}

// Login обменивает пароль доступа на токен и сохраняет его.
func (c *Client) Login(ctx context.Context, password string) error {
	var out handlers.LoginResponse
	if err := c.call(ctx, http.MethodPost, "/api/login", handlers.LoginRequest{Password: password}, &out); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return service.ErrInvalidPassword
		}
		return err
	}
	if c.Tokens == nil {
		return nil
	}
	return c.Tokens.Save(out.Token)
}

// Logout завершает сессию на сервере и удаляет локальный токен.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/api/logout", nil, nil)
	if c.Tokens != nil {
		if cerr := c.Tokens.Clear(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Status сообщает, нужен ли пароль и действует ли сохранённый токен.
func (c *Client) Status(ctx context.Context) (handlers.StatusResponse, error) {
	var out handlers.StatusResponse
	err := c.call(ctx, http.MethodGet, "/api/status", nil, &out)
	return out, err
}
