package service

import (
	"CaseKeeper/internal/cli/api"
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/service"
	"context"
)

// CaseService — операции с картотекой, доступные CLI. Реализуется локальным
// сервисом поверх key/value хранилища и HTTP-клиентом сервера.
type CaseService interface {
	ListCases(ctx context.Context) ([]model.Case, error)
	GetCase(ctx context.Context, id string) (*model.Case, error)
	SearchCases(ctx context.Context, query string) ([]model.Case, error)
	CreateCase(ctx context.Context, in service.CreateCaseInput) (*model.Case, error)
	UpdateCase(ctx context.Context, id string, in service.ProfileInput) (*model.Case, error)
	AddDiagnosis(ctx context.Context, caseID, content string, images []service.ImageInput) (*model.Case, error)
	EditDiagnosis(ctx context.Context, caseID, diagnosisID, content string, images []service.ImageInput) (*model.Case, error)
}

var (
	_ CaseService = (*service.CaseService)(nil)
	_ CaseService = (*api.Client)(nil)
)
