package leveldb

import (
	"CaseKeeper/internal/cli/repo"
	"errors"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
)

// DirName — каталог базы LevelDB внутри каталога клиента.
const DirName = "leveldb"

// KVStoreLevelDB — key/value хранилище клиента поверх LevelDB.
type KVStoreLevelDB struct {
	db *leveldb.DB
}

var _ repo.KV = (*KVStoreLevelDB)(nil)

// Open открывает базу в каталоге dir/leveldb.
func Open(dir string) (*KVStoreLevelDB, string, error) {
	if dir == "" {
		return nil, "", errors.New("empty client db path")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	p := filepath.Join(dir, DirName)
	db, err := leveldb.OpenFile(p, nil)
	if err != nil {
		return nil, "", err
	}
	return &KVStoreLevelDB{db: db}, p, nil
}

func (s *KVStoreLevelDB) Get(key string) ([]byte, error) {
	v, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, repo.ErrKeyNotFound
	}
	return v, err
}

func (s *KVStoreLevelDB) Put(key string, value []byte) error {
	return s.db.Put([]byte(key), value, nil)
}

func (s *KVStoreLevelDB) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
