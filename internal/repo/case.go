package repo

import (
	"CaseKeeper/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound возвращается, когда записи с указанным id нет.
var ErrNotFound = errors.New("record not found")

// CaseRepository — контракт хранилища историй болезни.
// Каждая запись сохраняется целиком одной операцией; блокировок нет, последний писатель выигрывает.
type CaseRepository interface {
	// ListCases возвращает все записи, отсортированные по last_diagnosis_time DESC.
	ListCases(ctx context.Context) ([]model.Case, error)

	// GetCase возвращает запись по id или ErrNotFound.
	GetCase(ctx context.Context, id string) (*model.Case, error)

	// CreateCase вставляет новую запись.
	CreateCase(ctx context.Context, c *model.Case) error

	// SaveCase перезаписывает существующую запись (кроме id и created_at).
	// Если записи нет — ErrNotFound.
	SaveCase(ctx context.Context, c *model.Case) error

	// CountCases возвращает количество записей.
	CountCases(ctx context.Context) (int64, error)

	// CreateCases вставляет пачку записей за одну операцию.
	CreateCases(ctx context.Context, cs []model.Case) error
}

type caseRepo struct {
	db *gorm.DB
}

// NewCaseRepository создаёт реализацию репозитория поверх gorm (PostgreSQL/SQLite).
func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepo{db: db}
}

func (r *caseRepo) ListCases(ctx context.Context) ([]model.Case, error) {
	var cs []model.Case
	err := r.db.WithContext(ctx).
		Order("last_diagnosis_time DESC").
		Order("created_at DESC").
		Find(&cs).Error
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *caseRepo) GetCase(ctx context.Context, id string) (*model.Case, error) {
	var c model.Case
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) CreateCase(ctx context.Context, c *model.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caseRepo) SaveCase(ctx context.Context, c *model.Case) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Case{}).
		Where("id = ?", c.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(c)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *caseRepo) CountCases(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Case{}).Count(&n).Error
	return n, err
}

func (r *caseRepo) CreateCases(ctx context.Context, cs []model.Case) error {
	if len(cs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&cs).Error
	})
}
