package service

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/model"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Лимиты по умолчанию для одной пачки изображений.
const (
	DefaultMaxImages     = 10
	DefaultMaxImageBytes = 5 * 1024 * 1024
)

// ImageInput — одно изображение во входных данных операции.
// Либо Data (сырые байты, будут сохранены в хранилище), либо URL ранее загруженного объекта.
type ImageInput struct {
	Name        string
	ContentType string
	Data        []byte
	URL         string
}

// ImageAttacher проверяет и сохраняет изображения, превращая их в ссылки model.Image.
type ImageAttacher struct {
	store    blob.Store
	maxCount int
	maxBytes int64
	logger   *zap.SugaredLogger
}

// NewImageAttacher создаёт обработчик изображений. Нулевые лимиты заменяются значениями по умолчанию.
func NewImageAttacher(store blob.Store, maxCount int, maxBytes int64, logger *zap.SugaredLogger) *ImageAttacher {
	if maxCount <= 0 {
		maxCount = DefaultMaxImages
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ImageAttacher{store: store, maxCount: maxCount, maxBytes: maxBytes, logger: logger}
}

// MaxCount — максимальное число изображений в одной пачке.
func (a *ImageAttacher) MaxCount() int { return a.maxCount }

// MaxBytes — максимальный размер одного изображения.
func (a *ImageAttacher) MaxBytes() int64 { return a.maxBytes }

// Validate проверяет пачку целиком, ничего не сохраняя.
func (a *ImageAttacher) Validate(in []ImageInput) error {
	if len(in) > a.maxCount {
		return invalid("images", fmt.Sprintf("at most %d images per batch, got %d", a.maxCount, len(in)))
	}
	for i, img := range in {
		field := fmt.Sprintf("images[%d]", i)
		if img.URL != "" {
			if len(img.Data) > 0 {
				return invalid(field, "either data or url, not both")
			}
			if err := a.checkReference(img.URL); err != nil {
				return invalid(field, err.Error())
			}
			continue
		}
		if len(img.Data) == 0 {
			return invalid(field, "empty image")
		}
		if int64(len(img.Data)) > a.maxBytes {
			return invalid(field, fmt.Sprintf("image exceeds %d bytes", a.maxBytes))
		}
		if _, err := detectImageType(img); err != nil {
			return invalid(field, err.Error())
		}
	}
	return nil
}

// UploadsPrefix — путь, по которому сервер раздаёт загруженные файлы.
const UploadsPrefix = "/uploads/"

// checkReference допускает только ссылки на изображения: data URL с типом image/*
// (содержимое проверяется так же, как загруженные байты), http(s) адрес
// или путь внутри /uploads/.
func (a *ImageAttacher) checkReference(ref string) error {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(strings.ToLower(ref), "data:") {
		return a.checkDataURL(ref)
	}
	if strings.HasPrefix(ref, UploadsPrefix) {
		if strings.Contains(ref, "..") || len(ref) == len(UploadsPrefix) {
			return fmt.Errorf("invalid upload path")
		}
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image reference must be a data:image URL, an http(s) URL or an %s path", UploadsPrefix)
	}
	return nil
}

func (a *ImageAttacher) checkDataURL(ref string) error {
	head, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return fmt.Errorf("malformed data URL")
	}
	mediaType, params, _ := strings.Cut(head, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("only image files are allowed (declared %s)", mediaType)
	}
	if !strings.EqualFold(params, "base64") {
		return fmt.Errorf("data URL must be base64 encoded")
	}
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > a.maxBytes+2 {
		return fmt.Errorf("image exceeds %d bytes", a.maxBytes)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("invalid base64 payload")
	}
	if len(data) == 0 {
		return fmt.Errorf("empty image")
	}
	if int64(len(data)) > a.maxBytes {
		return fmt.Errorf("image exceeds %d bytes", a.maxBytes)
	}
	_, err = detectImageType(ImageInput{ContentType: mediaType, Data: data})
	return err
}

// detectImageType сверяет заявленный тип с содержимым; оба должны быть image/*.
func detectImageType(img ImageInput) (string, error) {
	sniffed := http.DetectContentType(img.Data)
	if !strings.HasPrefix(sniffed, "image/") {
		return "", fmt.Errorf("only image files are allowed (detected %s)", sniffed)
	}
	declared := strings.TrimSpace(strings.ToLower(img.ContentType))
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return "", fmt.Errorf("only image files are allowed (declared %s)", declared)
	}
	return sniffed, nil
}

// Store сохраняет изображения параллельно и дожидается всех.
// Порядок результата совпадает с порядком входа. При любой ошибке уже сохранённые
// объекты удаляются, и возвращается ошибка. Вторым значением — ключи сохранённых объектов.
func (a *ImageAttacher) Store(ctx context.Context, in []ImageInput) ([]model.Image, []string, error) {
	images := make([]model.Image, len(in))
	keys := make([]string, len(in))
	var (
		mu     sync.Mutex
		stored []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range in {
		images[i] = model.Image{ID: uuid.NewString(), Name: img.Name}
		if img.URL != "" {
			images[i].Data = img.URL
			continue
		}
		g.Go(func() error {
			ct, err := detectImageType(img)
			if err != nil {
				return invalid(fmt.Sprintf("images[%d]", i), err.Error())
			}
			key := blob.NewKey(img.Name, ct)
			ref, err := a.store.Put(gctx, key, img.Data, ct)
			if err != nil {
				return fmt.Errorf("store image %q: %w", img.Name, err)
			}
			mu.Lock()
			stored = append(stored, key)
			mu.Unlock()
			keys[i] = key
			images[i].Data = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.Discard(ctx, stored)
		return nil, nil, err
	}

	out := make([]string, 0, len(stored))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return images, out, nil
}

// Attach = Validate + Store.
func (a *ImageAttacher) Attach(ctx context.Context, in []ImageInput) ([]model.Image, []string, error) {
	if err := a.Validate(in); err != nil {
		return nil, nil, err
	}
	return a.Store(ctx, in)
}

// Discard удаляет сохранённые объекты (best-effort), например если запись не удалось сохранить.
func (a *ImageAttacher) Discard(ctx context.Context, keys []string) {
	for _, k := range keys {
		if err := a.store.Delete(context.WithoutCancel(ctx), k); err != nil {
			a.logger.Warnw("failed to discard image", "key", k, "error", err)
		}
	}
}
