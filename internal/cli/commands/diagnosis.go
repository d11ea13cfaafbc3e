package commands

import (
	"CaseKeeper/internal/cli/bootstrap"
	cliservice "CaseKeeper/internal/cli/service"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/model"
	"context"
	"fmt"
)

// parseDiagnosisArgs разбирает "[-image path]... <text>" после позиционных id.
func parseDiagnosisArgs(name string, args []string) (string, []string, error) {
	fs := newFlagSet(name)
	var images imageList
	fs.Var(&images, "image", "путь к изображению или ссылка (можно повторять)")
	if err := fs.Parse(args); err != nil {
		return "", nil, ErrUsage
	}
	text := content(fs.Args())
	if text == "" {
		return "", nil, ErrUsage
	}
	return text, images, nil
}

func printDiagnosis(title string, c *model.Case, idx int) {
	d := c.Diagnoses[idx]
	fmt.Fprintln(Out, title)
	fmt.Fprintf(Out, "  case:      %s\n", c.ID)
	fmt.Fprintf(Out, "  diagnosis: %s\n", d.ID)
	fmt.Fprintf(Out, "  images:    %d\n", len(d.Images))
}

type diagnosisAddCmd struct{}

func (diagnosisAddCmd) Name() string        { return "diagnosis-add" }
func (diagnosisAddCmd) Description() string { return "Добавить диагноз в историю записи" }
func (diagnosisAddCmd) Usage() string {
	return "diagnosis-add <case-id> [-image path]... <diagnosis>"
}

func (diagnosisAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	caseID := args[0]
	text, paths, err := parseDiagnosisArgs("diagnosis-add", args[1:])
	if err != nil {
		return err
	}
	images, err := cliservice.LoadImages(paths)
	if err != nil {
		return err
	}

	svc, done, err := bootstrap.OpenCaseService(cfg)
	if err != nil {
		return err
	}
	defer done()
	c, err := svc.AddDiagnosis(ctx, caseID, text, images)
	if err != nil {
		return err
	}
	printDiagnosis("Added:", c, len(c.Diagnoses)-1)
	return nil
}

type diagnosisEditCmd struct{}

func (diagnosisEditCmd) Name() string { return "diagnosis-edit" }
func (diagnosisEditCmd) Description() string {
	return "Заменить текст диагноза и дописать изображения"
}
func (diagnosisEditCmd) Usage() string {
	return "diagnosis-edit <case-id> <diagnosis-id> [-image path]... <diagnosis>"
}

func (diagnosisEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	caseID, diagnosisID := args[0], args[1]
	text, paths, err := parseDiagnosisArgs("diagnosis-edit", args[2:])
	if err != nil {
		return err
	}
	images, err := cliservice.LoadImages(paths)
	if err != nil {
		return err
	}

	svc, done, err := bootstrap.OpenCaseService(cfg)
	if err != nil {
		return err
	}
	defer done()
	c, err := svc.EditDiagnosis(ctx, caseID, diagnosisID, text, images)
	if err != nil {
		return err
	}
	printDiagnosis("Updated:", c, c.FindDiagnosis(diagnosisID))
	return nil
}

func init() {
	RegisterCmd(diagnosisAddCmd{})
	RegisterCmd(diagnosisEditCmd{})
}
