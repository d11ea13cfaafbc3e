package commands

import (
	"CaseKeeper/internal/cli/bootstrap"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/service"
	"context"
	"fmt"
)

type caseEditCmd struct{}

func (caseEditCmd) Name() string { return "case-edit" }
func (caseEditCmd) Description() string {
	return "Изменить поля карточки (меняются только указанные флаги)"
}
func (caseEditCmd) Usage() string {
	return "case-edit <id> [-name n] [-symptom s] [-contact c] [-gender male|female] [-age n]"
}

func (caseEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id := args[0]
	fs := newFlagSet("case-edit")
	var p profileFlags
	p.bind(fs)
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 0 || fs.NFlag() == 0 {
		return ErrUsage
	}

	svc, done, err := bootstrap.OpenCaseService(cfg)
	if err != nil {
		return err
	}
	defer done()
	cur, err := svc.GetCase(ctx, id)
	if err != nil {
		return err
	}
	in := service.ProfileInput{
		Name:    cur.Name,
		Symptom: cur.Symptom,
		Contact: cur.Contact,
		Gender:  cur.Gender,
		Age:     cur.Age,
	}
	if err := p.apply(fs, &in); err != nil {
		return err
	}
	c, err := svc.UpdateCase(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Updated:")
	fmt.Fprintf(Out, "  id:   %s\n", c.ID)
	fmt.Fprintf(Out, "  name: %s\n", c.Name)
	return nil
}

func init() { RegisterCmd(caseEditCmd{}) }
