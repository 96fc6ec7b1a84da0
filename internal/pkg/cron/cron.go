package cron

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/qs3c/academy_server/internal/model/dto"
)

// Reconciler 按缴费记录校正学员状态
type Reconciler interface {
	Reconcile() (*dto.ReconcileResult, error)
}

type Service struct {
	reconciler Reconciler
	schedule   string
	cron       *cron.Cron
}

func NewService(reconciler Reconciler, schedule string) *Service {
	return &Service{
		reconciler: reconciler,
		schedule:   schedule,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start 注册每日对账任务并启动调度
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.reconcile); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Printf("Cron service started (reconcile schedule=%q)", s.schedule)
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	log.Println("Cron service stopped")
}

func (s *Service) reconcile() {
	if _, err := s.RunNow(); err != nil {
		log.Printf("Failed to reconcile student statuses: %v", err)
	}
}

// RunNow 立即执行一次对账（用于测试或手动触发）
func (s *Service) RunNow() (*dto.ReconcileResult, error) {
	log.Println("Starting student status reconcile...")
	result, err := s.reconciler.Reconcile()
	if err != nil {
		return nil, err
	}
	log.Printf("Reconcile completed: checked=%d, updated=%d, expired=%d",
		result.Checked, len(result.Updated), len(result.Expired))
	return result, nil
}
