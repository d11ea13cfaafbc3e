package bootstrap

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/cli/api"
	"CaseKeeper/internal/cli/repo"
	fsrepo "CaseKeeper/internal/cli/repo/fs"
	repoleveldb "CaseKeeper/internal/cli/repo/leveldb"
	reposqlite "CaseKeeper/internal/cli/repo/sqlite"
	cliservice "CaseKeeper/internal/cli/service"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/service"
	"fmt"
)

// Локальные хранилища клиента.
const (
	StoreSQLite  = "sqlite"
	StoreLevelDB = "leveldb"
)

// OpenKV открывает key/value хранилище, выбранное в конфигурации,
// и возвращает (kv, cleanup, error).
func OpenKV(cfg *config.Config) (repo.KV, func() error, error) {
	switch cfg.ClientStore {
	case StoreSQLite, "":
		s, _, err := reposqlite.Open(cfg.ClientDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open client db: %w", err)
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("migrate client db: %w", err)
		}
		return s, s.Close, nil
	case StoreLevelDB:
		s, _, err := repoleveldb.Open(cfg.ClientDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open client db: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown client store %q (sqlite|leveldb)", cfg.ClientStore)
	}
}

// OpenLocal собирает сервис картотеки поверх локального хранилища.
// Изображения сохраняются прямо в записи как data URL.
// cleanup необходимо вызвать после окончания работы, чтобы закрыть хранилище.
func OpenLocal(cfg *config.Config) (*service.CaseService, func() error, error) {
	kv, cleanup, err := OpenKV(cfg)
	if err != nil {
		return nil, nil, err
	}
	images := service.NewImageAttacher(blob.NewDataURIStore(), cfg.ImageMaxCount, cfg.ImageMaxBytes(), nil)
	return service.NewCaseService(repo.NewCaseStore(kv), images, nil), cleanup, nil
}

// OpenAPI — клиент сервера с токеном из файла.
func OpenAPI(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.ServerURL, fsrepo.NewTokenFSStore(cfg.TokenFile))
}

// OpenCaseService выбирает реализацию по флагу -remote.
func OpenCaseService(cfg *config.Config) (cliservice.CaseService, func() error, error) {
	if cfg.Remote {
		return OpenAPI(cfg), func() error { return nil }, nil
	}
	return OpenLocal(cfg)
}
