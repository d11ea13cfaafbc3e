package commands

import (
	"CaseKeeper/internal/cli/bootstrap"
	"CaseKeeper/internal/cli/model/view"
	"CaseKeeper/internal/config"
	"context"
	"strings"
)

type casesCmd struct{}

func (casesCmd) Name() string        { return "cases" }
func (casesCmd) Description() string { return "Показать все записи (последние осмотры сверху)" }
func (casesCmd) Usage() string       { return "cases" }

func (casesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	svc, done, err := bootstrap.OpenCaseService(cfg)
	if err != nil {
		return err
	}
	defer done()
	list, err := svc.ListCases(ctx)
	if err != nil {
		return err
	}
	view.WriteList(Out, list)
	return nil
}

type caseCmd struct{}

func (caseCmd) Name() string        { return "case" }
func (caseCmd) Description() string { return "Показать запись с историей диагнозов" }
func (caseCmd) Usage() string       { return "case <id>" }

func (caseCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	svc, done, err := bootstrap.OpenCaseService(cfg)
	if err != nil {
		return err
	}
	defer done()
	c, err := svc.GetCase(ctx, args[0])
	if err != nil {
		return err
	}
	view.WriteCase(Out, c)
	return nil
}

type searchCmd struct{}

func (searchCmd) Name() string { return "search" }
func (searchCmd) Description() string {
	return "Поиск по имени, симптому, контакту и тексту диагнозов"
}
func (searchCmd) Usage() string { return "search <query>" }

func (searchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	svc, done, err := bootstrap.OpenCaseService(cfg)
	if err != nil {
		return err
	}
	defer done()
	list, err := svc.SearchCases(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	view.WriteList(Out, list)
	return nil
}

func init() {
	RegisterCmd(casesCmd{})
	RegisterCmd(caseCmd{})
	RegisterCmd(searchCmd{})
}
