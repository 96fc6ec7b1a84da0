package billing

import (
	"github.com/qs3c/academy_server/internal/model"
)

// Classification 由缴费流水推导出的学员缴费状态
type Classification struct {
	Status     string `json:"status"`
	AmountDue  int64  `json:"amount_due"`
	AmountPaid int64  `json:"amount_paid"`
}

// Classify 汇总属于该学员的缴费记录，已缴金额不低于应缴金额即为 Paid。
// 列表中其他学员的记录会被忽略。
func Classify(student *model.Student, payments []*model.Payment) Classification {
	if student == nil {
		return Classification{Status: model.StudentStatusPending}
	}

	var paid int64
	for _, p := range payments {
		if p == nil || p.StudentID != student.ID {
			continue
		}
		paid += nonNegative(p.Amount)
	}

	owed := nonNegative(student.Amount)
	c := Classification{
		Status:     model.StudentStatusPending,
		AmountPaid: paid,
	}
	if paid >= owed {
		c.Status = model.StudentStatusPaid
	} else {
		c.AmountDue = owed - paid
	}
	return c
}

// GroupByStudent 按学员 ID 分组缴费记录
func GroupByStudent(payments []*model.Payment) map[int64][]*model.Payment {
	groups := make(map[int64][]*model.Payment)
	for _, p := range payments {
		if p == nil {
			continue
		}
		groups[p.StudentID] = append(groups[p.StudentID], p)
	}
	return groups
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
