package service

import (
	"CaseKeeper/internal/model"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/cases.schema.json
var importSchema []byte

// ErrAlreadyPopulated — импорт пропущен, в хранилище уже есть записи.
var ErrAlreadyPopulated = errors.New("store already contains records, import skipped")

// importImage принимает как строку-ссылку, так и объект {id, data|dataUrl, name}.
type importImage struct {
	ID      string `json:"id"`
	Data    string `json:"data"`
	DataURL string `json:"dataUrl"`
	Name    string `json:"name"`
}

func (i *importImage) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = importImage{Data: s}
		return nil
	}
	type plain importImage
	return json.Unmarshal(b, (*plain)(i))
}

type importDiagnosis struct {
	ID            string        `json:"id"`
	MongoID       string        `json:"_id"`
	Content       string        `json:"content"`
	CreatedAt     string        `json:"createdAt"`
	DiagnosisTime string        `json:"diagnosisTime"`
	UpdatedAt     *string       `json:"updatedAt"`
	ModifiedTime  *string       `json:"modifiedTime"`
	Images        []importImage `json:"images"`
}

type importCase struct {
	ID               string            `json:"id"`
	MongoID          string            `json:"_id"`
	Name             string            `json:"name"`
	CaseName         string            `json:"caseName"`
	Symptom          string            `json:"symptom"`
	Contact          string            `json:"contact"`
	Gender           string            `json:"gender"`
	Age              *int              `json:"age"`
	CreatedAt        string            `json:"createdAt"`
	CreateTime       string            `json:"createTime"`
	Diagnoses        []importDiagnosis `json:"diagnoses"`
	DiagnosisRecords []importDiagnosis `json:"diagnosisRecords"`
}

// ValidateImport проверяет файл импорта по JSON-схеме.
func ValidateImport(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(importSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return invalid("file", fmt.Sprintf("invalid JSON: %v", err))
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return invalid("file", strings.Join(msgs, "; "))
	}
	return nil
}

// ImportCases загружает записи из JSON-файла в пустое хранилище одной пачкой.
// Понимает как текущий формат (name/diagnoses), так и старый (caseName/diagnosisRecords).
// Если записи уже есть — возвращает ErrAlreadyPopulated и ничего не пишет.
func (s *CaseService) ImportCases(ctx context.Context, data []byte) (int, error) {
	if err := ValidateImport(data); err != nil {
		return 0, err
	}
	var raw []importCase
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, invalid("file", err.Error())
	}

	n, err := s.repo.CountCases(ctx)
	if err != nil {
		return 0, storageErr("count cases", err)
	}
	if n > 0 {
		return 0, ErrAlreadyPopulated
	}

	cases := make([]model.Case, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, rc := range raw {
		c, err := s.importedCase(rc)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("[%d].%s", i, ve.Field)
			}
			return 0, err
		}
		if seen[c.ID] {
			c.ID = uuid.NewString()
		}
		seen[c.ID] = true
		cases = append(cases, c)
	}

	if err := s.repo.CreateCases(ctx, cases); err != nil {
		s.logger.Errorw("import failed", "count", len(cases), "error", err)
		return 0, storageErr("import cases", err)
	}
	return len(cases), nil
}

func (s *CaseService) importedCase(rc importCase) (model.Case, error) {
	name := firstNonEmpty(rc.Name, rc.CaseName)
	profile, err := normalizeProfile(ProfileInput{
		Name:    name,
		Symptom: rc.Symptom,
		Contact: rc.Contact,
		Gender:  importGender(rc.Gender),
		Age:     rc.Age,
	})
	if err != nil {
		return model.Case{}, err
	}

	src := rc.Diagnoses
	if len(src) == 0 {
		src = rc.DiagnosisRecords
	}
	if len(src) == 0 {
		return model.Case{}, invalid("diagnoses", "at least one diagnosis is required")
	}

	now := s.now()
	diagnoses := make([]model.Diagnosis, 0, len(src))
	seen := make(map[string]bool, len(src))
	for j, rd := range src {
		content, err := normalizeContent(rd.Content)
		if err != nil {
			return model.Case{}, invalid(fmt.Sprintf("diagnoses[%d].content", j), "is required")
		}
		created, err := parseImportTime(firstNonEmpty(rd.CreatedAt, rd.DiagnosisTime), now)
		if err != nil {
			return model.Case{}, invalid(fmt.Sprintf("diagnoses[%d].createdAt", j), err.Error())
		}
		d := model.Diagnosis{
			ID:        firstNonEmpty(rd.ID, rd.MongoID),
			Content:   content,
			CreatedAt: created,
			Images:    make([]model.Image, 0, len(rd.Images)),
		}
		if d.ID == "" || seen[d.ID] {
			d.ID = uuid.NewString()
		}
		seen[d.ID] = true

		if upd := firstNonEmptyPtr(rd.UpdatedAt, rd.ModifiedTime); upd != "" {
			t, err := parseImportTime(upd, now)
			if err != nil {
				return model.Case{}, invalid(fmt.Sprintf("diagnoses[%d].updatedAt", j), err.Error())
			}
			d.UpdatedAt = &t
		}

		imgSeen := make(map[string]bool, len(rd.Images))
		for _, im := range rd.Images {
			img := model.Image{ID: im.ID, Data: firstNonEmpty(im.Data, im.DataURL), Name: im.Name}
			if img.Data == "" {
				continue
			}
			if img.ID == "" || imgSeen[img.ID] {
				img.ID = uuid.NewString()
			}
			imgSeen[img.ID] = true
			d.Images = append(d.Images, img)
		}
		diagnoses = append(diagnoses, d)
	}

	c := model.Case{
		ID:        firstNonEmpty(rc.ID, rc.MongoID),
		Name:      profile.Name,
		Symptom:   profile.Symptom,
		Contact:   profile.Contact,
		Gender:    profile.Gender,
		Age:       profile.Age,
		Diagnoses: diagnoses,
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.LastDiagnosisTime = c.LatestActivity()
	c.CreatedAt = diagnoses[0].CreatedAt
	if ts := firstNonEmpty(rc.CreatedAt, rc.CreateTime); ts != "" {
		t, err := parseImportTime(ts, now)
		if err != nil {
			return model.Case{}, invalid("createdAt", err.Error())
		}
		c.CreatedAt = t
	}
	return c, nil
}

func importGender(g string) model.Gender {
	switch strings.TrimSpace(g) {
	case "男":
		return model.GenderMale
	case "女":
		return model.GenderFemale
	}
	return model.Gender(strings.ToLower(strings.TrimSpace(g)))
}

func parseImportTime(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q", s)
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyPtr(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
