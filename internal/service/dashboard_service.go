package service

import (
	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/repository"
)

type DashboardService struct {
	studentRepo *repository.StudentRepository
	paymentRepo *repository.PaymentRepository
}

func NewDashboardService(studentRepo *repository.StudentRepository, paymentRepo *repository.PaymentRepository) *DashboardService {
	return &DashboardService{
		studentRepo: studentRepo,
		paymentRepo: paymentRepo,
	}
}

// Summary 先按缴费记录重新推导每个学员的状态，再汇总
func (s *DashboardService) Summary() (*billing.Summary, error) {
	students, err := s.studentRepo.List("")
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List()
	if err != nil {
		return nil, err
	}

	sum := billing.Aggregate(billing.Reclassify(students, payments))
	return &sum, nil
}
