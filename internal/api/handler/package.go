package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/pkg/response"
)

type PackageHandler struct{}

func NewPackageHandler() *PackageHandler {
	return &PackageHandler{}
}

// List 套餐目录
// GET /api/v1/packages
func (h *PackageHandler) List(c *gin.Context) {
	response.Success(c, billing.Packages())
}
