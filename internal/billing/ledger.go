package billing

import (
	"github.com/qs3c/academy_server/internal/model"
)

// Summary 仪表盘汇总
type Summary struct {
	TotalRevenue int64 `json:"total_revenue"`
	TotalPending int64 `json:"total_pending"`
	PendingCount int   `json:"pending_count"`
	StudentCount int   `json:"student_count"`
}

// Aggregate 每次调用都完整重算。金额缺失或为负按 0 计，
// 状态不是 Paid 的学员都算作待缴。
func Aggregate(students []*model.Student) Summary {
	var s Summary
	for _, st := range students {
		if st == nil {
			continue
		}
		s.StudentCount++
		amount := nonNegative(st.Amount)
		if st.Status == model.StudentStatusPaid {
			s.TotalRevenue += amount
			continue
		}
		s.TotalPending += amount
		s.PendingCount++
	}
	return s
}

// Reclassify 用缴费流水重新推导每个学员的状态，返回副本，不修改入参
func Reclassify(students []*model.Student, payments []*model.Payment) []*model.Student {
	groups := GroupByStudent(payments)
	out := make([]*model.Student, 0, len(students))
	for _, st := range students {
		if st == nil {
			continue
		}
		cp := *st
		cp.Status = Classify(st, groups[st.ID]).Status
		out = append(out, &cp)
	}
	return out
}
