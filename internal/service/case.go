package service

import (
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/repo"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileInput — поля карточки пациента.
type ProfileInput struct {
	Name    string
	Symptom string
	Contact string
	Gender  model.Gender
	Age     *int
}

// CreateCaseInput — карточка плюс первый диагноз.
type CreateCaseInput struct {
	ProfileInput
	Content string
	Images  []ImageInput
}

// CaseService инкапсулирует бизнес-логику работы с историями болезни.
type CaseService struct {
	repo   repo.CaseRepository
	images *ImageAttacher
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewCaseService создаёт сервис поверх репозитория и обработчика изображений.
func NewCaseService(r repo.CaseRepository, images *ImageAttacher, logger *zap.SugaredLogger) *CaseService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CaseService{repo: r, images: images, logger: logger, now: defaultNow}
}

// время храним в UTC с точностью до миллисекунд — столько сохраняют все хранилища
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// SetClock подменяет источник времени (тесты).
func (s *CaseService) SetClock(now func() time.Time) { s.now = now }

// Images — обработчик изображений сервиса.
func (s *CaseService) Images() *ImageAttacher { return s.images }

func normalizeProfile(in ProfileInput) (ProfileInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Symptom = strings.TrimSpace(in.Symptom)
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Name == "" {
		return in, invalid("name", "is required")
	}
	if !in.Gender.Valid() {
		return in, invalid("gender", "must be male, female or empty")
	}
	if in.Age != nil && *in.Age < 0 {
		return in, invalid("age", "must be non-negative")
	}
	return in, nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalid("content", "is required")
	}
	return content, nil
}

// ListCases возвращает все записи в каноническом порядке (lastDiagnosisTime DESC).
func (s *CaseService) ListCases(ctx context.Context) ([]model.Case, error) {
	cs, err := s.repo.ListCases(ctx)
	if err != nil {
		s.logger.Errorw("list cases failed", "error", err)
		return nil, storageErr("list cases", err)
	}
	if cs == nil {
		cs = []model.Case{}
	}
	return cs, nil
}

// GetCase возвращает запись по id.
func (s *CaseService) GetCase(ctx context.Context, id string) (*model.Case, error) {
	c, err := s.repo.GetCase(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Errorw("get case failed", "id", id, "error", err)
		return nil, storageErr("get case", err)
	}
	return c, nil
}

// SearchCases — поиск подстроки без учёта регистра по имени, симптому, контакту и текстам диагнозов.
// Пустой запрос возвращает полный список.
func (s *CaseService) SearchCases(ctx context.Context, query string) ([]model.Case, error) {
	all, err := s.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return all, nil
	}
	res := make([]model.Case, 0, len(all))
	for i := range all {
		if all[i].Matches(query) {
			res = append(res, all[i])
		}
	}
	return res, nil
}

// CreateCase создаёт запись вместе с первым диагнозом и сразу сохраняет её.
func (s *CaseService) CreateCase(ctx context.Context, in CreateCaseInput) (*model.Case, error) {
	profile, err := normalizeProfile(in.ProfileInput)
	if err != nil {
		return nil, err
	}
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}
	if err := s.images.Validate(in.Images); err != nil {
		return nil, err
	}

	images, keys, err := s.images.Store(ctx, in.Images)
	if err != nil {
		return nil, s.imageErr(err)
	}

	now := s.now()
	c := &model.Case{
		ID:                uuid.NewString(),
		Name:              profile.Name,
		Symptom:           profile.Symptom,
		Contact:           profile.Contact,
		Gender:            profile.Gender,
		Age:               profile.Age,
		CreatedAt:         now,
		LastDiagnosisTime: now,
		Diagnoses: []model.Diagnosis{{
			ID:        uuid.NewString(),
			Content:   content,
			CreatedAt: now,
			Images:    images,
		}},
	}
	if err := s.repo.CreateCase(ctx, c); err != nil {
		s.images.Discard(ctx, keys)
		s.logger.Errorw("create case failed", "error", err)
		return nil, storageErr("create case", err)
	}
	return c, nil
}

// UpdateCase меняет поля карточки. Диагнозы и lastDiagnosisTime не трогает.
func (s *CaseService) UpdateCase(ctx context.Context, id string, in ProfileInput) (*model.Case, error) {
	profile, err := normalizeProfile(in)
	if err != nil {
		return nil, err
	}
	c, err := s.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = profile.Name
	c.Symptom = profile.Symptom
	c.Contact = profile.Contact
	c.Gender = profile.Gender
	c.Age = profile.Age
	if err := s.save(ctx, c, nil); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CaseService) save(ctx context.Context, c *model.Case, keys []string) error {
	err := s.repo.SaveCase(ctx, c)
	if err == nil {
		return nil
	}
	s.images.Discard(ctx, keys)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	s.logger.Errorw("save case failed", "id", c.ID, "error", err)
	return storageErr("save case", err)
}

func (s *CaseService) imageErr(err error) error {
	if IsValidation(err) {
		return err
	}
	s.logger.Errorw("store images failed", "error", err)
	return storageErr("store images", err)
}
