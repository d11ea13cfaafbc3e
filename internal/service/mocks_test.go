package service

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/repo"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Мок CaseRepository
type mockCaseRepo struct{ mock.Mock }

func (m *mockCaseRepo) ListCases(ctx context.Context) ([]model.Case, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Case); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCaseRepo) GetCase(ctx context.Context, id string) (*model.Case, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Case); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCaseRepo) CreateCase(ctx context.Context, c *model.Case) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCaseRepo) SaveCase(ctx context.Context, c *model.Case) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCaseRepo) CountCases(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockCaseRepo) CreateCases(ctx context.Context, cs []model.Case) error {
	return m.Called(ctx, cs).Error(0)
}

var _ repo.CaseRepository = (*mockCaseRepo)(nil)

// хелперы
var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02")

func ptrInt(v int) *int { return &v }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestService(r repo.CaseRepository, store blob.Store) *CaseService {
	logger := zap.NewNop().Sugar()
	return NewCaseService(r, NewImageAttacher(store, 0, 0, logger), logger)
}
