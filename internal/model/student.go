package model

import (
	"time"
)

// 学员缴费状态
const (
	StudentStatusPending = "Pending"
	StudentStatusPaid    = "Paid"
)

type Student struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	Email     *string   `gorm:"size:100" json:"email,omitempty"`
	Package   string    `gorm:"size:20;not null" json:"package"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"end_date"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	Status    string    `gorm:"size:20;default:Pending;index" json:"status"` // 缓存值，以缴费记录推导结果为准
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}
