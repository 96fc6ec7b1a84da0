package model

import (
	"time"
)

// 默认付款方式
const PaymentMethodCash = "Cash"

// Payment 缴费记录，创建后不再修改
type Payment struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	StudentID   int64     `gorm:"not null;index" json:"student_id"`
	Reference   string    `gorm:"size:64;uniqueIndex" json:"reference"`
	Amount      int64     `gorm:"not null" json:"amount"`
	PaymentDate time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	Method      string    `gorm:"size:30;default:Cash" json:"payment_method"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
