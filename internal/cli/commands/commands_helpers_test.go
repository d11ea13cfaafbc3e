package commands

import (
	"CaseKeeper/internal/config"
	"bytes"
	"path/filepath"
	"testing"
)

// withTempConfig — конфиг клиента, у которого база и токен лежат во временном каталоге.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ClientStore:   "sqlite",
		ClientDBPath:  filepath.Join(dir, "db"),
		TokenFile:     filepath.Join(dir, "token"),
		ImageMaxCount: 10,
		ImageMaxMB:    5,
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}
