package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/response"
	"github.com/qs3c/academy_server/internal/testutil"
)

func paymentRouter(t *testing.T) (*gin.Engine, *testServices) {
	t.Helper()

	svcs := setupServices(t)
	h := NewPaymentHandler(svcs.payments)

	router := gin.New()
	router.GET("/payments", h.List)
	router.POST("/payments", h.Create)
	router.GET("/payments/:id", h.Get)
	router.DELETE("/payments/:id", h.Delete)
	return router, svcs
}

func TestPaymentHandler_Create(t *testing.T) {
	router, svcs := paymentRouter(t)
	student := testutil.TestStudent(t, svcs.db)

	w := performRequest(router, "POST", "/payments", map[string]interface{}{
		"student_id":     student.ID,
		"amount":         4000,
		"payment_date":   "2024-02-01",
		"payment_method": "Card",
	})

	var resp dto.CreatePaymentResponse
	r := decodeData(t, w, &resp)
	assert.Equal(t, response.CodeSuccess, r.Code)
	assert.Equal(t, model.StudentStatusPaid, resp.StudentStatus)
	assert.Zero(t, resp.AmountDue)
	assert.Equal(t, "Card", resp.Payment.Method)
	assert.Equal(t, "2024-02-01", resp.Payment.PaymentDate)
}

func TestPaymentHandler_Create_Errors(t *testing.T) {
	router, svcs := paymentRouter(t)
	student := testutil.TestStudent(t, svcs.db)

	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{"zero amount", map[string]interface{}{"student_id": student.ID, "amount": 0}, response.CodeParamError},
		{"negative amount", map[string]interface{}{"student_id": student.ID, "amount": -100}, response.CodeParamError},
		{"bad date", map[string]interface{}{"student_id": student.ID, "amount": 100, "payment_date": "2024/02/01"}, response.CodeParamError},
		{"unknown student", map[string]interface{}{"student_id": 999, "amount": 100}, response.CodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/payments", tt.body)
			assert.Equal(t, tt.code, parseResponse(t, w).Code)
		})
	}
}

func TestPaymentHandler_List(t *testing.T) {
	router, svcs := paymentRouter(t)
	s1 := testutil.TestStudent(t, svcs.db)
	s2 := testutil.TestStudent(t, svcs.db)
	testutil.TestPayment(t, svcs.db, s1.ID, 100, testutil.WithPaymentDate(testutil.Date(2024, time.January, 5)))
	testutil.TestPayment(t, svcs.db, s2.ID, 200, testutil.WithPaymentDate(testutil.Date(2024, time.March, 5)))

	w := performRequest(router, "GET", "/payments", nil)
	var all []dto.PaymentItem
	decodeData(t, w, &all)
	require.Len(t, all, 2)
	assert.Equal(t, s2.ID, all[0].StudentID, "newest first")

	w = performRequest(router, "GET", fmt.Sprintf("/payments?student_id=%d", s1.ID), nil)
	var mine []dto.PaymentItem
	decodeData(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(100), mine[0].Amount)

	w = performRequest(router, "GET", "/payments?student_id=abc", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = performRequest(router, "GET", "/payments?student_id=99999", nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}

func TestPaymentHandler_GetAndDelete(t *testing.T) {
	router, svcs := paymentRouter(t)
	student := testutil.TestStudent(t, svcs.db, testutil.WithStudentStatus(model.StudentStatusPaid))
	payment := testutil.TestPayment(t, svcs.db, student.ID, 4000)

	w := performRequest(router, "GET", fmt.Sprintf("/payments/%d", payment.ID), nil)
	var item dto.PaymentItem
	decodeData(t, w, &item)
	assert.Equal(t, payment.Reference, item.Reference)

	w = performRequest(router, "DELETE", fmt.Sprintf("/payments/%d", payment.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	got, err := svcs.students.Get(student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StudentStatusPending, got.Status)

	w = performRequest(router, "DELETE", fmt.Sprintf("/payments/%d", payment.ID), nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)

	w = performRequest(router, "GET", fmt.Sprintf("/payments/%d", payment.ID), nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}

