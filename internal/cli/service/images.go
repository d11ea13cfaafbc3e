package service

import (
	"CaseKeeper/internal/service"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// isReference — аргумент указывает на уже сохранённое изображение, а не на локальный файл.
func isReference(p string) bool {
	return strings.HasPrefix(p, "http://") ||
		strings.HasPrefix(p, "https://") ||
		strings.HasPrefix(p, "/uploads/") ||
		strings.HasPrefix(p, "data:")
}

// LoadImages читает изображения, перечисленные в аргументах командной строки.
// Ссылки (http(s)://, /uploads/, data:) передаются как есть.
func LoadImages(paths []string) ([]service.ImageInput, error) {
	out := make([]service.ImageInput, 0, len(paths))
	for _, p := range paths {
		if isReference(p) {
			out = append(out, service.ImageInput{Name: filepath.Base(p), URL: p})
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", p, err)
		}
		ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		out = append(out, service.ImageInput{Name: filepath.Base(p), ContentType: ct, Data: data})
	}
	return out, nil
}
