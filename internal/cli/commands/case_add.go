package commands

import (
	"CaseKeeper/internal/cli/bootstrap"
	cliservice "CaseKeeper/internal/cli/service"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/service"
	"context"
	"fmt"
)

type caseAddCmd struct{}

func (caseAddCmd) Name() string        { return "case-add" }
func (caseAddCmd) Description() string { return "Создать запись с первым диагнозом" }
func (caseAddCmd) Usage() string {
	return "case-add -name <name> [-symptom s] [-contact c] [-gender male|female] [-age n] [-image path]... <diagnosis>"
}

func (caseAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("case-add")
	var (
		p      profileFlags
		images imageList
	)
	p.bind(fs)
	fs.Var(&images, "image", "путь к изображению или ссылка (можно повторять)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	text := content(fs.Args())
	if p.name == "" || text == "" {
		return ErrUsage
	}

	var in service.CreateCaseInput
	if err := p.apply(fs, &in.ProfileInput); err != nil {
		return err
	}
	in.Content = text
	imgs, err := cliservice.LoadImages(images)
	if err != nil {
		return err
	}
	in.Images = imgs

	svc, done, err := bootstrap.OpenCaseService(cfg)
	if err != nil {
		return err
	}
	defer done()
	c, err := svc.CreateCase(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:     %s\n", c.ID)
	fmt.Fprintf(Out, "  name:   %s\n", c.Name)
	fmt.Fprintf(Out, "  images: %d\n", len(c.Diagnoses[0].Images))
	return nil
}

func init() { RegisterCmd(caseAddCmd{}) }
