package handlers

import (
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/service"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const uploadField = "images"

// UploadHandler принимает изображения отдельно от записи и возвращает их адреса.
type UploadHandler struct {
	Images *service.ImageAttacher
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewUploadHandler(images *service.ImageAttacher, logger *zap.SugaredLogger, cfg *config.Config) *UploadHandler {
	return &UploadHandler{Images: images, Logger: logger, Config: cfg}
}

type UploadResponse struct {
	URLs []string `json:"urls"`
}

// Upload POST /api/upload (multipart, поле images)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.Images.MaxBytes()
	maxCount := h.Images.MaxCount()
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxCount)*maxBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[uploadField]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	if len(files) > maxCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", maxCount))
		return
	}

	inputs := make([]service.ImageInput, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxBytes {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds %d bytes", fh.Filename, maxBytes))
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read uploaded file")
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read uploaded file")
			return
		}
		inputs = append(inputs, service.ImageInput{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	images, _, err := h.Images.Attach(r.Context(), inputs)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	resp := UploadResponse{URLs: make([]string, 0, len(images))}
	for _, img := range images {
		resp.URLs = append(resp.URLs, img.Data)
	}
	h.Logger.Infow("images uploaded", "count", len(resp.URLs))
	writeJSON(w, http.StatusOK, resp)
}
