package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/export"
	"github.com/qs3c/academy_server/internal/pkg/queue"
	"github.com/qs3c/academy_server/internal/repository"
)

var ErrQueueUnavailable = errors.New("任务队列未配置")

// JobQueue 导出任务队列（Redis list）
type JobQueue interface {
	Push(ctx context.Context, msg *queue.JobMessage) error
}

type ExportService struct {
	studentRepo *repository.StudentRepository
	paymentRepo *repository.PaymentRepository
	jobRepo     *repository.ExportJobRepository
	queue       JobQueue
	cfg         *config.Config
}

func NewExportService(
	studentRepo *repository.StudentRepository,
	paymentRepo *repository.PaymentRepository,
	jobRepo *repository.ExportJobRepository,
	cfg *config.Config,
) *ExportService {
	return &ExportService{
		studentRepo: studentRepo,
		paymentRepo: paymentRepo,
		jobRepo:     jobRepo,
		cfg:         cfg,
	}
}

func (s *ExportService) SetQueue(q JobQueue) {
	s.queue = q
}

// BuildLedger 生成台账工作簿，学员状态按缴费记录推导
func (s *ExportService) BuildLedger() ([]byte, error) {
	students, err := s.studentRepo.List("")
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List()
	if err != nil {
		return nil, err
	}

	return export.BuildLedger(&export.Ledger{
		Students: billing.Reclassify(students, payments),
		Payments: payments,
	})
}

// Enqueue 创建导出任务并投递到队列，进度只推送给 adminID
func (s *ExportService) Enqueue(ctx context.Context, adminID int64) (*dto.ExportJobItem, error) {
	if s.queue == nil {
		return nil, ErrQueueUnavailable
	}

	job := &model.ExportJob{
		Kind:        model.ExportKindLedger,
		Status:      "queued",
		RequestedBy: adminID,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	if err := s.queue.Push(ctx, &queue.JobMessage{JobID: job.ID, Kind: job.Kind}); err != nil {
		now := time.Now()
		job.Status = "failed"
		job.ErrorMessage = err.Error()
		job.CompletedAt = &now
		if uerr := s.jobRepo.Update(job); uerr != nil {
			return nil, fmt.Errorf("push export job: %w (mark failed: %v)", err, uerr)
		}
		return nil, fmt.Errorf("push export job: %w", err)
	}

	return toExportJobItem(job), nil
}

func (s *ExportService) Get(id int64) (*dto.ExportJobItem, error) {
	job, err := s.jobRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	return toExportJobItem(job), nil
}
