package dto

// CreatePaymentRequest 记录缴费，日期为空时取当天，方式为空时为 Cash
type CreatePaymentRequest struct {
	StudentID   int64  `json:"student_id" binding:"required,gt=0"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	PaymentDate string `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Method      string `json:"payment_method" binding:"max=30"`
	Notes       string `json:"notes" binding:"max=1000"`
}

// PaymentItem 缴费记录
type PaymentItem struct {
	ID          int64  `json:"id"`
	StudentID   int64  `json:"student_id"`
	Reference   string `json:"reference"`
	Amount      int64  `json:"amount"`
	PaymentDate string `json:"payment_date"`
	Method      string `json:"payment_method"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// CreatePaymentResponse 缴费后同时返回学员的最新状态
type CreatePaymentResponse struct {
	Payment       *PaymentItem `json:"payment"`
	StudentStatus string       `json:"student_status"`
	AmountDue     int64        `json:"amount_due"`
}
