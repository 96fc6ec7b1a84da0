package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/service"
)

type StudentHandler struct {
	studentService *service.StudentService
}

func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// List 学员列表
// GET /api/v1/students?search=&status=
func (h *StudentHandler) List(c *gin.Context) {
	items, err := h.studentService.List(c.Query("search"), c.Query("status"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Create 新增学员
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.studentService.Create(&req)
	if err != nil {
		if !paramError(c, err) {
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创建成功", item)
}

// Register 公开报名，状态固定为 Pending
// POST /api/v1/register
func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.studentService.Register(&req)
	if err != nil {
		if !paramError(c, err) {
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "报名成功", item)
}

// Get 学员详情
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的学员ID")
		return
	}

	item, err := h.studentService.Get(id)
	if err != nil {
		switch err {
		case service.ErrStudentNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// Update 更新学员
// PUT /api/v1/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的学员ID")
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.studentService.Update(id, &req)
	if err != nil {
		if paramError(c, err) {
			return
		}
		switch err {
		case service.ErrStudentNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "更新成功", item)
}

// Delete 删除学员及其缴费记录
// DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的学员ID")
		return
	}

	if err := h.studentService.Delete(id); err != nil {
		var ce *service.CascadeError
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.As(err, &ce):
			response.CascadeError(c, ce.Error(), ce)
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Classification 按缴费记录推导的状态与欠费
// GET /api/v1/students/:id/classification
func (h *StudentHandler) Classification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的学员ID")
		return
	}

	resp, err := h.studentService.Classification(id)
	if err != nil {
		switch err {
		case service.ErrStudentNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}
