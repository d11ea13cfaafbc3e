package blob

import (
	"context"
	"fmt"
)

// Options — параметры выбора и создания хранилища.
type Options struct {
	Driver    Driver
	UploadDir string // для fs
	PublicURL string // для fs: префикс ссылок (по умолчанию /uploads)
	S3        S3Config
}

// Open создаёт хранилище указанного драйвера. Пустой драйвер означает fs.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverFilesystem:
		return NewFSStore(opts.UploadDir, opts.PublicURL)
	case DriverS3:
		return NewS3Store(ctx, opts.S3)
	case DriverDataURI:
		return NewDataURIStore(), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
