package commands

import (
	"CaseKeeper/internal/cli/bootstrap"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/service"
	"context"
	"errors"
	"fmt"
	"os"
)

type importCmd struct{}

func (importCmd) Name() string { return "import" }
func (importCmd) Description() string {
	return "Загрузить записи из JSON-файла в пустое локальное хранилище"
}
func (importCmd) Usage() string { return "import <file.json>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if cfg.Remote {
		return errors.New("import works with the local store only")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	svc, done, err := bootstrap.OpenLocal(cfg)
	if err != nil {
		return err
	}
	defer done()
	n, err := svc.ImportCases(ctx, data)
	if errors.Is(err, service.ErrAlreadyPopulated) {
		fmt.Fprintln(Out, "Хранилище уже содержит записи, импорт пропущен")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Imported: %d\n", n)
	return nil
}

func init() { RegisterCmd(importCmd{}) }
