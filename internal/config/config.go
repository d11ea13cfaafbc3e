package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN        string `env:"DATABASE_URI"`
	MongoDatabase      string `env:"MONGO_DATABASE"`
	AuthSecret         string `env:"AUTH_SECRET"`
	AuthSecretRandom   bool   `env:"-"` // секрет не задан и сгенерирован при старте
	AccessPassword     string `env:"ACCESS_PASSWORD"`
	AccessPasswordHash string `env:"ACCESS_PASSWORD_HASH"`
	ImportFile         string `env:"-"` // импорт JSON при старте (flag only)

	// Image storage
	ImageStorage  string `env:"IMAGE_STORAGE"`
	UploadDir     string `env:"UPLOAD_DIR"`
	ImageMaxMB    int    `env:"IMAGE_MAX_MB"`
	ImageMaxCount int    `env:"IMAGE_MAX_COUNT"`
	S3Bucket      string `env:"S3_BUCKET"`
	S3Region      string `env:"S3_REGION"`
	S3Endpoint    string `env:"S3_ENDPOINT"`
	S3PathStyle   bool   `env:"S3_PATH_STYLE"`
	S3PublicURL   string `env:"S3_PUBLIC_URL"`
	// пустой ключ — стандартная цепочка учётных данных AWS
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL    string `env:"-"`
	ClientStore  string `env:"CLIENT_STORE"`
	ClientDBPath string `env:"CLIENT_DB_PATH"`
	TokenFile    string `env:"TOKEN_FILE"`
	Remote       bool   `env:"REMOTE"`
	Version      bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres://, mongodb:// или путь к SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.ImportFile, "import", cfg.ImportFile, "импортировать записи из JSON-файла в пустое хранилище и выйти")
	flag.StringVar(&cfg.ImageStorage, "image-storage", cfg.ImageStorage, "хранилище изображений: fs|s3")
	flag.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "каталог загруженных изображений (fs)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.ClientStore, "client-store", cfg.ClientStore, "локальное хранилище клиента: sqlite|leveldb")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to client local store")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Remote, "remote", cfg.Remote, "работать с сервером вместо локального хранилища")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		// без заданного секрета подписываем случайным ключом: токены живут до перезапуска
		cfg.AuthSecret = randomSecret()
		cfg.AuthSecretRandom = true
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "casekeeper"
	}
	if cfg.ImageStorage == "" {
		cfg.ImageStorage = "fs"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.ImageMaxMB <= 0 {
		cfg.ImageMaxMB = 5
	}
	if cfg.ImageMaxCount <= 0 {
		cfg.ImageMaxCount = 10
	}
	if cfg.ClientStore == "" {
		cfg.ClientStore = "sqlite"
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	home, _ := os.UserHomeDir()
	if cfg.ClientDBPath == "" {
		cfg.ClientDBPath = filepath.Join(home, ".casekeeper")
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(home, ".casekeeper_token")
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("config: generate auth secret: %v", err))
	}
	return hex.EncodeToString(b)
}

// ImageMaxBytes — лимит размера одного изображения в байтах.
func (cfg *Config) ImageMaxBytes() int64 {
	return int64(cfg.ImageMaxMB) * 1024 * 1024
}
