package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// List 缴费列表
// GET /api/v1/payments?student_id=
func (h *PaymentHandler) List(c *gin.Context) {
	var studentID int64
	if s := c.Query("student_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			response.ParamError(c, "无效的学员ID")
			return
		}
		studentID = id
	}

	items, err := h.paymentService.List(studentID)
	if err != nil {
		if err == service.ErrStudentNotFound {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Create 记录缴费
// POST /api/v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.paymentService.Create(&req)
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

	response.SuccessWithMessage(c, "缴费已记录", resp)
}

// Get 缴费详情
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的缴费ID")
		return
	}

	item, err := h.paymentService.Get(id)
	if err != nil {
		switch err {
		case service.ErrPaymentNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// Delete 删除缴费记录
// DELETE /api/v1/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的缴费ID")
		return
	}

	if err := h.paymentService.Delete(id); err != nil {
		switch err {
		case service.ErrPaymentNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
