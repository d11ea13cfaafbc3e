package commands

import (
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/service"
	"flag"
	"io"
	"strconv"
	"strings"
)

// imageList — повторяемый флаг -image.
type imageList []string

func (l *imageList) String() string { return strings.Join(*l, ",") }

func (l *imageList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// profileFlags — поля карточки, общие для case-add и case-edit.
type profileFlags struct {
	name, symptom, contact, gender, age string
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (p *profileFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&p.name, "name", "", "имя пациента")
	fs.StringVar(&p.symptom, "symptom", "", "основной симптом")
	fs.StringVar(&p.contact, "contact", "", "контакт")
	fs.StringVar(&p.gender, "gender", "", "пол: male|female")
	fs.StringVar(&p.age, "age", "", "возраст")
}

func parseGender(s string) (model.Gender, error) {
	g := model.Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", &service.ValidationError{Field: "gender", Message: "must be male, female or empty"}
	}
	return g, nil
}

// parseAge: пустая строка — возраст не указан.
func parseAge(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &service.ValidationError{Field: "age", Message: "must be a number"}
	}
	return &n, nil
}

// apply переносит в in только те поля, флаги которых были явно заданы.
func (p *profileFlags) apply(fs *flag.FlagSet, in *service.ProfileInput) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "name":
			in.Name = p.name
		case "symptom":
			in.Symptom = p.symptom
		case "contact":
			in.Contact = p.contact
		case "gender":
			in.Gender, err = parseGender(p.gender)
		case "age":
			in.Age, err = parseAge(p.age)
		}
	})
	return err
}

// content — позиционные аргументы после флагов, склеенные в один текст.
func content(rest []string) string {
	return strings.TrimSpace(strings.Join(rest, " "))
}
