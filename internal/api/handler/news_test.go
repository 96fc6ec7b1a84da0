package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/service"
	"github.com/qs3c/academy_server/internal/testutil"
)

func newsRouter(t *testing.T, now time.Time) (*gin.Engine, *testServices) {
	t.Helper()

	svcs := setupServices(t)
	h := NewNewsHandler(svcs.news)
	h.now = func() time.Time { return now }

	router := gin.New()
	router.GET("/news/feed", h.Feed)
	router.GET("/news/breaking", h.Breaking)
	router.GET("/news", h.List)
	router.POST("/news", h.Create)
	router.GET("/news/:id", h.Get)
	router.PUT("/news/:id", h.Update)
	router.DELETE("/news/:id", h.Delete)
	router.POST("/news/:id/image", h.UploadImage)
	return router, svcs
}

func TestNewsHandler_CreateAndUpdate(t *testing.T) {
	router, _ := newsRouter(t, time.Now())

	w := performRequest(router, "POST", "/news", map[string]interface{}{
		"title":    "Tournament results",
		"category": "results",
		"content":  "<p>Well played</p>",
		"status":   "published",
		"date":     "2024-06-01",
	})
	var item dto.NewsItem
	resp := decodeData(t, w, &item)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, "2024-06-01T00:00:00Z", item.Date)

	w = performRequest(router, "PUT", fmt.Sprintf("/news/%d", item.ID), map[string]interface{}{
		"title":    "Tournament results (updated)",
		"category": "results",
		"content":  "<p>Well played</p>",
		"status":   "draft",
	})
	decodeData(t, w, &item)
	assert.Equal(t, "Tournament results (updated)", item.Title)
	assert.Equal(t, model.NewsStatusDraft, item.Status)

	w = performRequest(router, "GET", "/news?status=draft", nil)
	var drafts []dto.NewsItem
	decodeData(t, w, &drafts)
	assert.Len(t, drafts, 1)
}

func TestNewsHandler_Create_Invalid(t *testing.T) {
	router, _ := newsRouter(t, time.Now())

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"category": "events", "content": "x"}},
		{"bad status", map[string]interface{}{"title": "t", "category": "events", "content": "x", "status": "hidden"}},
		{"content too long", map[string]interface{}{"title": "t", "category": "events", "content": strings.Repeat("a", 1000001)}},
		{"bad image", map[string]interface{}{"title": "t", "category": "events", "content": "x", "image": "data:text/plain;base64,aGk="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/news", tt.body)
			assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
		})
	}
}

func TestNewsHandler_FeedAndBreaking(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	router, svcs := newsRouter(t, now)

	w := performRequest(router, "GET", "/news/breaking", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
	assert.Nil(t, resp.Data)

	announcement := testutil.TestNews(t, svcs.db,
		testutil.WithCategory("announcements"),
		testutil.WithPublishedAt(now.Add(-time.Hour)),
	)
	testutil.TestNews(t, svcs.db, testutil.WithPublishedAt(now.Add(-48*time.Hour)))
	testutil.TestNews(t, svcs.db, testutil.WithNewsStatus(model.NewsStatusDraft))

	w = performRequest(router, "GET", "/news/breaking", nil)
	var breaking dto.NewsItem
	decodeData(t, w, &breaking)
	assert.Equal(t, announcement.ID, breaking.ID)

	w = performRequest(router, "GET", "/news/feed", nil)
	var feed []dto.NewsItem
	decodeData(t, w, &feed)
	require.Len(t, feed, 2)
	assert.Equal(t, announcement.ID, feed[0].ID)

	w = performRequest(router, "GET", "/news/feed?category=events", nil)
	decodeData(t, w, &feed)
	assert.Len(t, feed, 1)
}

func imageRequest(t *testing.T, router *gin.Engine, path, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="cover"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewsHandler_UploadImage(t *testing.T) {
	router, svcs := newsRouter(t, time.Now())
	news := testutil.TestNews(t, svcs.db)
	path := fmt.Sprintf("/news/%d/image", news.ID)

	w := imageRequest(t, router, path, "image/png", []byte("png-bytes"))
	var item dto.NewsItem
	resp := decodeData(t, w, &item)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.True(t, strings.HasPrefix(item.Image, "data:image/png;base64,"))

	w = imageRequest(t, router, path, "application/pdf", []byte("%PDF"))
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = imageRequest(t, router, "/news/999/image", "image/png", []byte("png-bytes"))
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)

	w = performRequest(router, "POST", path, nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}

func TestNewsHandler_UploadImage_TooLarge(t *testing.T) {
	router, svcs := newsRouter(t, time.Now())
	svcs.cfg.News.MaxImageBytes = 16
	news := testutil.TestNews(t, svcs.db, func(n *model.News) { n.Image = "https://example.com/keep.jpg" })

	w := imageRequest(t, router, fmt.Sprintf("/news/%d/image", news.ID), "image/png", bytes.Repeat([]byte{0x89}, 17))
	var ve service.ValidationError
	resp := decodeData(t, w, &ve)
	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "image", ve.Field)

	stored, err := svcs.news.Get(news.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/keep.jpg", stored.Image)
}

func TestNewsHandler_Delete(t *testing.T) {
	router, svcs := newsRouter(t, time.Now())
	news := testutil.TestNews(t, svcs.db)

	w := performRequest(router, "DELETE", fmt.Sprintf("/news/%d", news.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "GET", fmt.Sprintf("/news/%d", news.ID), nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}
