package repo

import (
	"CaseKeeper/internal/model"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория.
// Для каждого теста — своя база, чтобы данные не пересекались.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// хелпер для создания записи с одним диагнозом
func mkCase(id, name string, last time.Time) model.Case {
	at := last.UTC().Truncate(time.Millisecond)
	return model.Case{
		ID:                id,
		Name:              name,
		CreatedAt:         at,
		LastDiagnosisTime: at,
		Diagnoses: []model.Diagnosis{{
			ID:        "d-" + id,
			Content:   "first visit",
			CreatedAt: at,
			Images:    []model.Image{},
		}},
	}
}
