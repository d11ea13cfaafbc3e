package service

import (
	"CaseKeeper/internal/cli/api"
	"context"
)

// AuthService описывает юзкейс-уровень входа на сервер для CLI.
type AuthService interface {
	// Login обменивает пароль доступа на токен и сохраняет его локально.
	Login(ctx context.Context, password string) error

	// Logout очищает локальный токен.
	Logout(ctx context.Context) error
}

var _ AuthService = (*api.Client)(nil)
