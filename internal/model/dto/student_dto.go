package dto

// CreateStudentRequest 新增学员，amount 为空时取套餐价格
type CreateStudentRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Phone     string  `json:"phone" binding:"max=20"`
	Email     *string `json:"email" binding:"omitempty,email,max=100"`
	Package   string  `json:"package" binding:"required"`
	StartDate string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	Amount    *int64  `json:"amount" binding:"omitempty,min=0"`
	Status    string  `json:"status" binding:"omitempty,oneof=Pending Paid"`
}

// UpdateStudentRequest 整体更新学员
type UpdateStudentRequest = CreateStudentRequest

// RegisterRequest 公开报名，状态固定为 Pending，开始日期为当天
type RegisterRequest struct {
	Name    string  `json:"name" binding:"required,max=100"`
	Phone   string  `json:"phone" binding:"required,max=20"`
	Email   *string `json:"email" binding:"omitempty,email,max=100"`
	Package string  `json:"package" binding:"required"`
}

// StudentItem 学员信息
type StudentItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Package   string  `json:"package"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Amount    int64   `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// ClassificationResponse 学员缴费状态明细
type ClassificationResponse struct {
	StudentID  int64          `json:"student_id"`
	Status     string         `json:"status"`
	AmountDue  int64          `json:"amount_due"`
	AmountPaid int64          `json:"amount_paid"`
	Payments   []*PaymentItem `json:"payments"`
}

// ReconcileResult 定时对账结果
type ReconcileResult struct {
	Checked  int     `json:"checked"`
	Updated  []int64 `json:"updated"`
	Expired  []int64 `json:"expired"`
	Failures int     `json:"failures"`
}
