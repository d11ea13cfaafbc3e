package commands

import (
	"CaseKeeper/internal/cli/bootstrap"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/service"
	"context"
	"errors"
	"fmt"
)

type loginCmd struct{}

func (loginCmd) server()  {}
func (logoutCmd) server() {}
func (statusCmd) server() {}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Войти на сервер и сохранить токен" }
func (loginCmd) Usage() string       { return "login <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	client := bootstrap.OpenAPI(cfg)
	if err := client.Login(ctx, args[0]); err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			return errors.New("invalid password")
		}
		return err
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Выйти и удалить сохранённый токен" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := bootstrap.OpenAPI(cfg).Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Проверить доступность сервера и вход" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	st, err := bootstrap.OpenAPI(cfg).Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Server:        %s\n", cfg.ServerURL)
	fmt.Fprintf(Out, "Auth required: %t\n", st.AuthRequired)
	fmt.Fprintf(Out, "Authenticated: %t\n", st.Authenticated)
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
}
