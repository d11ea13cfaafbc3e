// Package blob хранит содержимое прикреплённых изображений.
// Хранилище получает байты и возвращает ссылку, которая попадает в запись диагноза.
package blob

import (
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Driver — тип хранилища.
type Driver string

const (
	DriverDataURI    Driver = "datauri" // инлайн data URL (локальный клиент)
	DriverFilesystem Driver = "fs"      // файлы в каталоге загрузок
	DriverS3         Driver = "s3"      // S3 / MinIO
	DriverMemory     Driver = "memory"  // тесты
)

// ErrUnknownDriver — в конфигурации указан неизвестный драйвер.
var ErrUnknownDriver = errors.New("blob: unknown driver")

// Store — минимальный контракт хранилища изображений.
type Store interface {
	// Put сохраняет данные под ключом и возвращает ссылку для записи в Image.Data.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete удаляет объект; отсутствие объекта ошибкой не считается.
	Delete(ctx context.Context, key string) error
	Driver() Driver
}

// NewKey генерирует уникальный ключ объекта с расширением исходного файла
// (или подобранным по MIME-типу).
func NewKey(fileName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return uuid.NewString() + ext
}
