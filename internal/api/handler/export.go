package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/internal/api/middleware"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Ledger 同步下载台账
// GET /api/v1/exports/ledger
func (h *ExportHandler) Ledger(c *gin.Context) {
	data, err := h.exportService.BuildLedger()
	if err != nil {
		log.Printf("Failed to build ledger export: %v", err)
		response.ServerError(c, "导出失败")
		return
	}

	filename := fmt.Sprintf("ledger-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Create 创建异步导出任务
// POST /api/v1/exports
func (h *ExportHandler) Create(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	item, err := h.exportService.Enqueue(c.Request.Context(), adminID)
	if err != nil {
		switch err {
		case service.ErrQueueUnavailable:
			response.ServerError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	log.Printf("Admin %d queued export job %d", adminID, item.ID)
	response.SuccessWithMessage(c, "导出任务已创建", item)
}

// Get 导出任务状态
// GET /api/v1/exports/:id
func (h *ExportHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的任务ID")
		return
	}

	item, err := h.exportService.Get(id)
	if err != nil {
		switch err {
		case service.ErrExportNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}
