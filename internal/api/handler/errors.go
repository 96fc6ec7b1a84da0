package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/service"
)

// bindError 请求体无法绑定时返回出错字段
func bindError(c *gin.Context, err error) {
	ve := service.AsValidationError(err)
	response.ErrorWithData(c, response.CodeParamError, ve.Error(), ve)
}

// paramError 处理校验类错误，未识别时返回 false
func paramError(c *gin.Context, err error) bool {
	var ve *service.ValidationError
	var pe *billing.UnknownPackageError
	switch {
	case errors.As(err, &ve):
		response.ErrorWithData(c, response.CodeParamError, ve.Error(), ve)
	case errors.As(err, &pe):
		response.ErrorWithData(c, response.CodeParamError, pe.Error(), &service.ValidationError{Field: "package", Reason: pe.Error()})
	default:
		return false
	}
	return true
}
