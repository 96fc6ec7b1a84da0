package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	router := gin.New()
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestSuccess(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", data["key"])
}

func TestSuccess_NilData(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		Success(c, nil)
	})

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Nil(t, resp.Data)
}

func TestSuccessWithMessage(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		SuccessWithMessage(c, "删除成功", nil)
	})

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "删除成功", resp.Message)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name        string
		call        func(c *gin.Context, message string)
		code        int
		defaultText string
	}{
		{"param", ParamError, CodeParamError, "参数错误"},
		{"auth", AuthError, CodeAuthFailed, "认证失败"},
		{"not found", NotFoundError, CodeResourceNotFound, "资源不存在"},
		{"server", ServerError, CodeServerError, "服务器内部错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name+" default message", func(t *testing.T) {
			w, resp := serve(t, func(c *gin.Context) { tt.call(c, "") })

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.defaultText, resp.Message)
			assert.Nil(t, resp.Data)
		})
		t.Run(tt.name+" custom message", func(t *testing.T) {
			_, resp := serve(t, func(c *gin.Context) { tt.call(c, "自定义") })

			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, "自定义", resp.Message)
		})
	}
}

func TestCascadeError(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		CascadeError(c, "", []gin.H{{"payment_id": 7, "error": "boom"}})
	})

	assert.Equal(t, CodeCascadeFailed, resp.Code)
	assert.Equal(t, "关联缴费记录删除失败", resp.Message)

	failures, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, failures, 1)
	assert.Equal(t, float64(7), failures[0].(map[string]interface{})["payment_id"])
}

func TestError_UnknownCode(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		Error(c, 9999, "")
	})

	assert.Equal(t, 9999, resp.Code)
	assert.Empty(t, resp.Message)
}
