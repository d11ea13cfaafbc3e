package handlers

import (
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/service"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CaseHandler обслуживает записи и диагнозы.
type CaseHandler struct {
	CaseService *service.CaseService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewCaseHandler создаёт хендлер записей
func NewCaseHandler(caseService *service.CaseService, logger *zap.SugaredLogger, cfg *config.Config) *CaseHandler {
	return &CaseHandler{CaseService: caseService, Logger: logger, Config: cfg}
}

// ImageDTO — изображение во входящем запросе: либо url ранее загруженного файла,
// либо data (base64 или data URL).
type ImageDTO struct {
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Data        string `json:"data,omitempty"`
}

type ProfileRequest struct {
	Name    string       `json:"name"`
	Symptom string       `json:"symptom"`
	Contact string       `json:"contact"`
	Gender  model.Gender `json:"gender"`
	Age     *int         `json:"age"`
}

type CreateCaseRequest struct {
	ProfileRequest
	Content string     `json:"content"`
	Images  []ImageDTO `json:"images"`
}

type DiagnosisRequest struct {
	Content string     `json:"content"`
	Images  []ImageDTO `json:"images"`
}

func (p ProfileRequest) input() service.ProfileInput {
	return service.ProfileInput{Name: p.Name, Symptom: p.Symptom, Contact: p.Contact, Gender: p.Gender, Age: p.Age}
}

func decodeImages(in []ImageDTO) ([]service.ImageInput, error) {
	out := make([]service.ImageInput, 0, len(in))
	for i, img := range in {
		ii := service.ImageInput{Name: img.Name, ContentType: img.ContentType, URL: img.URL}
		if img.Data != "" {
			data := img.Data
			if strings.HasPrefix(data, "data:") {
				meta, payload, ok := strings.Cut(strings.TrimPrefix(data, "data:"), ",")
				if !ok || !strings.HasSuffix(meta, ";base64") {
					return nil, fmt.Errorf("images[%d]: unsupported data URL", i)
				}
				if ii.ContentType == "" {
					ii.ContentType = strings.TrimSuffix(meta, ";base64")
				}
				data = payload
			}
			b, err := base64.StdEncoding.DecodeString(data)
			if err != nil {
				return nil, fmt.Errorf("images[%d]: invalid base64", i)
			}
			ii.Data = b
		}
		out = append(out, ii)
	}
	return out, nil
}

func (h *CaseHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	// base64 раздувает данные на треть; плюс запас на поля записи
	imgs := h.CaseService.Images()
	limit := int64(imgs.MaxCount())*imgs.MaxBytes()*4/3 + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// List GET /api/records
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.CaseService.ListCases(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// Get GET /api/records/{id}
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.CaseService.GetCase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Search GET /api/search?query=
func (h *CaseHandler) Search(w http.ResponseWriter, r *http.Request) {
	cs, err := h.CaseService.SearchCases(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// Create POST /api/records
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	images, err := decodeImages(req.Images)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.CaseService.CreateCase(r.Context(), service.CreateCaseInput{
		ProfileInput: req.input(),
		Content:      req.Content,
		Images:       images,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	h.Logger.Infow("case created", "id", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

// Update PUT /api/records/{id}
func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.CaseService.UpdateCase(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddDiagnosis POST /api/records/{id}/diagnoses
func (h *CaseHandler) AddDiagnosis(w http.ResponseWriter, r *http.Request) {
	var req DiagnosisRequest
	if !h.decode(w, r, &req) {
		return
	}
	images, err := decodeImages(req.Images)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.CaseService.AddDiagnosis(r.Context(), chi.URLParam(r, "id"), req.Content, images)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// EditDiagnosis PUT /api/records/{id}/diagnoses/{diagnosisID}
func (h *CaseHandler) EditDiagnosis(w http.ResponseWriter, r *http.Request) {
	var req DiagnosisRequest
	if !h.decode(w, r, &req) {
		return
	}
	images, err := decodeImages(req.Images)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.CaseService.EditDiagnosis(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "diagnosisID"), req.Content, images)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
