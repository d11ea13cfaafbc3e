package fs

import (
	"CaseKeeper/internal/cli/repo"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TokenFSStore — файловое хранилище токена сессии для CLI.
type TokenFSStore struct {
	path string
}

var _ repo.TokenStore = (*TokenFSStore)(nil)

func NewTokenFSStore(path string) *TokenFSStore {
	return &TokenFSStore{path: path}
}

// Save сохраняет токен в файл.
func (s *TokenFSStore) Save(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Load читает токен из файла.
func (s *TokenFSStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	token := strings.TrimRight(string(b), "\r\n\t ")
	if token == "" {
		return "", errors.New("empty token file")
	}
	return token, nil
}

// Clear удаляет файл токена; отсутствие файла ошибкой не считается.
func (s *TokenFSStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
