package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/repository"
	"github.com/qs3c/academy_server/internal/service"
	"github.com/qs3c/academy_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key"

type testServices struct {
	db        *gorm.DB
	cfg       *config.Config
	auth      *service.AuthService
	students  *service.StudentService
	payments  *service.PaymentService
	news      *service.NewsService
	dashboard *service.DashboardService
	exports   *service.ExportService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: testJWTSecret, ExpireHours: 24},
	}

	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	return &testServices{
		db:        db,
		cfg:       cfg,
		auth:      service.NewAuthService(repository.NewAdminRepository(db), cfg),
		students:  service.NewStudentService(studentRepo, paymentRepo, cfg),
		payments:  service.NewPaymentService(paymentRepo, studentRepo, cfg),
		news:      service.NewNewsService(repository.NewNewsRepository(db), cfg),
		dashboard: service.NewDashboardService(studentRepo, paymentRepo),
		exports:   service.NewExportService(studentRepo, paymentRepo, repository.NewExportJobRepository(db), cfg),
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// decodeData 把 data 字段解到 out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) response.Response {
	t.Helper()
	var resp struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return response.Response{Code: resp.Code, Message: resp.Message}
}
