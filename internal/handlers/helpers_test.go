package handlers_test

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/handlers"
	"CaseKeeper/internal/middleware"
	"CaseKeeper/internal/model"
	"CaseKeeper/internal/repo"
	"CaseKeeper/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Local light mocks
type hMockCaseRepo struct{ mock.Mock }

func (m *hMockCaseRepo) ListCases(ctx context.Context) ([]model.Case, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Case); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockCaseRepo) GetCase(ctx context.Context, id string) (*model.Case, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Case); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockCaseRepo) CreateCase(ctx context.Context, c *model.Case) error {
	return m.Called(ctx, c).Error(0)
}
func (m *hMockCaseRepo) SaveCase(ctx context.Context, c *model.Case) error {
	return m.Called(ctx, c).Error(0)
}
func (m *hMockCaseRepo) CountCases(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockCaseRepo) CreateCases(ctx context.Context, cs []model.Case) error {
	return m.Called(ctx, cs).Error(0)
}

var _ repo.CaseRepository = (*hMockCaseRepo)(nil)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02")

type testEnv struct {
	router http.Handler
	cfg    *config.Config
	repo   *hMockCaseRepo
	store  *blob.MemoryStore
}

// newTestRouter собирает роутер поверх мок-репозитория и хранилища в памяти.
// Пустой password — доступ без пароля.
func newTestRouter(t *testing.T, password string) *testEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", ImageStorage: "memory", ImageMaxCount: 2, ImageMaxMB: 1}
	logger := zap.NewNop().Sugar()
	r := &hMockCaseRepo{}
	store := blob.NewMemoryStore()

	caseSvc := service.NewCaseService(r, service.NewImageAttacher(store, cfg.ImageMaxCount, cfg.ImageMaxBytes(), logger), logger)
	access, err := service.NewAccessService(password, "")
	require.NoError(t, err)

	h := handlers.NewHandler(caseSvc, access, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, repo: r, store: store}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if s, ok := v.(string); ok {
		body.WriteString(s)
	} else if v != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(v))
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func addAuthCookie(t *testing.T, req *http.Request, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_, err := middleware.SetLoginCookie(rr, secret)
	require.NoError(t, err)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

type part struct {
	name        string
	contentType string
	data        []byte
}

// makeMultipart собирает multipart-тело с файлами в поле images
func makeMultipart(t *testing.T, parts ...part) (string, *bytes.Buffer) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+p.name+`"`)
		h.Set("Content-Type", p.contentType)
		fw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, _ = fw.Write(p.data)
	}
	require.NoError(t, w.Close())
	return w.FormDataContentType(), body
}
