package sqlite

import (
	"CaseKeeper/internal/cli/repo"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// FileName — имя файла БД внутри каталога клиента.
const FileName = "casekeeper.sqlite"

// KVStoreSQLite — key/value хранилище клиента в таблице kv (SQLite).
type KVStoreSQLite struct {
	db *sql.DB
}

var _ repo.KV = (*KVStoreSQLite)(nil)

// Open открывает (и создаёт при необходимости) файл БД в каталоге dir.
// Вторым значением возвращается путь к БД.
func Open(dir string) (*KVStoreSQLite, string, error) {
	if dir == "" {
		return nil, "", errors.New("empty client db path")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	return &KVStoreSQLite{db: db}, dbPath, nil
}

// Close закрывает соединение с БД.
func (s *KVStoreSQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц.
func (s *KVStoreSQLite) Migrate() error {
	return applyMigrations(s.db)
}

func (s *KVStoreSQLite) Get(key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *KVStoreSQLite) Put(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	return err
}
