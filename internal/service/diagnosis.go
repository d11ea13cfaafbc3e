package service

import (
	"CaseKeeper/internal/model"
	"context"

	"github.com/google/uuid"
)

// AddDiagnosis добавляет новый диагноз в конец истории и обновляет lastDiagnosisTime.
func (s *CaseService) AddDiagnosis(ctx context.Context, caseID, content string, images []ImageInput) (*model.Case, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.images.Validate(images); err != nil {
		return nil, err
	}
	c, err := s.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	stored, keys, err := s.images.Store(ctx, images)
	if err != nil {
		return nil, s.imageErr(err)
	}

	now := s.now()
	c.Diagnoses = append(c.Diagnoses, model.Diagnosis{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: now,
		Images:    stored,
	})
	c.LastDiagnosisTime = now
	if err := s.save(ctx, c, keys); err != nil {
		return nil, err
	}
	return c, nil
}

// EditDiagnosis заменяет текст диагноза и дописывает новые изображения к существующим.
// Ранее прикреплённые изображения не удаляются.
func (s *CaseService) EditDiagnosis(ctx context.Context, caseID, diagnosisID, content string, images []ImageInput) (*model.Case, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.images.Validate(images); err != nil {
		return nil, err
	}
	c, err := s.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	idx := c.FindDiagnosis(diagnosisID)
	if idx < 0 {
		return nil, ErrNotFound
	}

	stored, keys, err := s.images.Store(ctx, images)
	if err != nil {
		return nil, s.imageErr(err)
	}

	now := s.now()
	d := &c.Diagnoses[idx]
	d.Content = content
	d.UpdatedAt = &now
	d.Images = append(append([]model.Image{}, d.Images...), stored...)
	c.LastDiagnosisTime = now
	if err := s.save(ctx, c, keys); err != nil {
		return nil, err
	}
	return c, nil
}
