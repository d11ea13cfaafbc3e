package main

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/handlers"
	"CaseKeeper/internal/middleware"
	"CaseKeeper/internal/repo"
	mongorepo "CaseKeeper/internal/repo/mongo"
	"CaseKeeper/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	//context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	caseRepo, closeRepo, err := openCaseRepository(ctx, cfg)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	defer closeRepo()

	store, err := blob.Open(ctx, blob.Options{
		Driver:    blob.Driver(cfg.ImageStorage),
		UploadDir: cfg.UploadDir,
		S3: blob.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			PublicURL: cfg.S3PublicURL,

			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		},
	})
	if err != nil {
		sugar.Fatalw("failed to initialize image storage", "driver", cfg.ImageStorage, "error", err)
	}

	images := service.NewImageAttacher(store, cfg.ImageMaxCount, cfg.ImageMaxBytes(), sugar)
	caseService := service.NewCaseService(caseRepo, images, sugar)
	accessService, err := service.NewAccessService(cfg.AccessPassword, cfg.AccessPasswordHash)
	if err != nil {
		sugar.Fatalw("invalid access password hash", "error", err)
	}

	if cfg.ImportFile != "" {
		runImport(ctx, sugar, caseService, cfg.ImportFile)
		return
	}

	if cfg.AuthSecretRandom && accessService.Enabled() {
		sugar.Warnw("AUTH_SECRET is not set, using a random key: sessions end on restart")
	}

	h := handlers.NewHandler(caseService, accessService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"ImageStorage", cfg.ImageStorage,
		"AuthRequired", accessService.Enabled(),
	)

	srv := &http.Server{Addr: addr, Handler: h.Router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
}

// openCaseRepository выбирает хранилище по DSN: mongodb:// — MongoDB, остальное — gorm (Postgres/SQLite).
func openCaseRepository(ctx context.Context, cfg *config.Config) (repo.CaseRepository, func(), error) {
	if repo.IsMongoDSN(cfg.DatabaseDSN) {
		client, err := mongorepo.Connect(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return mongorepo.NewCaseRepository(client.Database(cfg.MongoDatabase)), closeFn, nil
	}
	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repo.NewCaseRepository(gormDB), closeFn, nil
}

func runImport(ctx context.Context, sugar *zap.SugaredLogger, svc *service.CaseService, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		sugar.Fatalw("failed to read import file", "file", path, "error", err)
	}
	n, err := svc.ImportCases(ctx, data)
	switch {
	case errors.Is(err, service.ErrAlreadyPopulated):
		sugar.Infow("Import skipped: store is not empty", "file", path)
	case err != nil:
		sugar.Fatalw("Import failed", "file", path, "error", err)
	default:
		sugar.Infow("Import finished", "file", path, "count", n)
	}
}
