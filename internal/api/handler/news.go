package handler

import (
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/service"
)

type NewsHandler struct {
	newsService *service.NewsService
	now         func() time.Time
}

func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
		now:         time.Now,
	}
}

// Feed 公开新闻列表
// GET /api/v1/news/feed?category=
func (h *NewsHandler) Feed(c *gin.Context) {
	items, err := h.newsService.Feed(c.Query("category"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Breaking 当前突发公告，没有时 data 为 null
// GET /api/v1/news/breaking
func (h *NewsHandler) Breaking(c *gin.Context) {
	item, err := h.newsService.Breaking(h.now())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, item)
}

// List 管理端新闻列表，包含草稿
// GET /api/v1/news?category=&status=
func (h *NewsHandler) List(c *gin.Context) {
	items, err := h.newsService.List(c.Query("category"), c.Query("status"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Get 新闻详情
// GET /api/v1/news/:id
func (h *NewsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的新闻ID")
		return
	}

	item, err := h.newsService.Get(id)
	if err != nil {
		switch err {
		case service.ErrNewsNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// Create 发布或保存草稿
// POST /api/v1/news
func (h *NewsHandler) Create(c *gin.Context) {
	var req dto.SaveNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.newsService.Create(&req)
	if err != nil {
		if !paramError(c, err) {
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "保存成功", item)
}

// Update 更新新闻
// PUT /api/v1/news/:id
func (h *NewsHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的新闻ID")
		return
	}

	var req dto.SaveNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.newsService.Update(id, &req)
	if err != nil {
		if paramError(c, err) {
			return
		}
		switch err {
		case service.ErrNewsNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "更新成功", item)
}

// Delete 删除新闻
// DELETE /api/v1/news/:id
func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的新闻ID")
		return
	}

	if err := h.newsService.Delete(id); err != nil {
		switch err {
		case service.ErrNewsNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// UploadImage 上传新闻封面图（multipart 字段 image）
// POST /api/v1/news/:id/image
func (h *NewsHandler) UploadImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的新闻ID")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.ParamError(c, "请上传图片")
		return
	}
	defer file.Close()

	if err := h.newsService.CheckImageSize(header.Size); err != nil {
		paramError(c, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "图片读取失败")
		return
	}

	item, err := h.newsService.UploadImage(id, data, header.Header.Get("Content-Type"))
	if err != nil {
		if paramError(c, err) {
			return
		}
		switch err {
		case service.ErrNewsNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "图片上传失败")
		}
		return
	}

	response.SuccessWithMessage(c, "上传成功", item)
}
