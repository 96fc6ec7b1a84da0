package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/qs3c/academy_server/internal/pkg/pubsub"
	"github.com/qs3c/academy_server/internal/pkg/queue"
	"github.com/qs3c/academy_server/internal/repository"
	"github.com/qs3c/academy_server/internal/service"
)

// ExportStorage 导出文件存储（OSS）
type ExportStorage interface {
	UploadExport(jobID int64, data []byte) (string, error)
}

// Pusher 重新投递未处理的任务
type Pusher interface {
	Push(ctx context.Context, msg *queue.JobMessage) error
}

// Processor 导出任务处理器
type Processor struct {
	jobRepo       *repository.ExportJobRepository
	exportService *service.ExportService
	storage       ExportStorage
	publisher     *pubsub.Publisher
	localDir      string
}

// NewProcessor 创建任务处理器。storage 为 nil 时文件写到 localDir
func NewProcessor(
	jobRepo *repository.ExportJobRepository,
	exportService *service.ExportService,
	storage ExportStorage,
	publisher *pubsub.Publisher,
	localDir string,
) *Processor {
	return &Processor{
		jobRepo:       jobRepo,
		exportService: exportService,
		storage:       storage,
		publisher:     publisher,
		localDir:      localDir,
	}
}

// Process 处理导出任务
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) error {
	job, err := p.jobRepo.GetByID(msg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job.Status != "queued" {
		log.Printf("Job %d: already %s, skipping", job.ID, job.Status)
		return nil
	}

	now := time.Now()
	claimed, err := p.jobRepo.Claim(job.ID, now)
	if err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}
	if !claimed {
		log.Printf("Job %d: claimed by another worker, skipping", job.ID)
		return nil
	}
	job.Status = "processing"
	job.StartedAt = &now

	publishProgress := func(step, status, errMsg string) {
		if p.publisher == nil {
			return
		}
		if err := p.publisher.PublishProgress(ctx, &pubsub.Event{
			AdminID: job.RequestedBy,
			JobID:   job.ID,
			Status:  status,
			Step:    step,
			Error:   errMsg,
		}); err != nil {
			log.Printf("Job %d: failed to publish progress: %v", job.ID, err)
		}
	}

	finish := func(status string) {
		completedAt := time.Now()
		job.Status = status
		job.CompletedAt = &completedAt
		job.ElapsedSeconds = int(completedAt.Sub(*job.StartedAt).Seconds())
		if err := p.jobRepo.Update(job); err != nil {
			log.Printf("Job %d: failed to update status %s: %v", job.ID, status, err)
		}
	}

	handleError := func(step string, err error) error {
		job.ErrorMessage = err.Error()
		finish("failed")
		publishProgress(step, "failed", err.Error())
		return err
	}

	// Step 1: 读取数据并生成工作簿
	log.Printf("Job %d: building ledger", job.ID)
	publishProgress(pubsub.StepLoading, "processing", "")
	data, err := p.exportService.BuildLedger()
	if err != nil {
		return handleError(pubsub.StepBuilding, fmt.Errorf("build ledger failed: %w", err))
	}
	publishProgress(pubsub.StepBuilding, "processing", "")

	// Step 2: 上传
	publishProgress(pubsub.StepUploading, "processing", "")
	fileURL, err := p.store(job.ID, data)
	if err != nil {
		return handleError(pubsub.StepUploading, err)
	}

	job.FileURL = fileURL
	finish("completed")
	publishProgress(pubsub.StepDone, "completed", "")

	log.Printf("Job %d: completed in %d seconds, %d bytes", job.ID, job.ElapsedSeconds, len(data))
	return nil
}

// store 上传到 OSS，未配置时保存到本地目录
func (p *Processor) store(jobID int64, data []byte) (string, error) {
	if p.storage != nil {
		url, err := p.storage.UploadExport(jobID, data)
		if err != nil {
			return "", fmt.Errorf("failed to upload export: %w", err)
		}
		return url, nil
	}

	if err := os.MkdirAll(p.localDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	name := fmt.Sprintf("ledger-%d.xlsx", jobID)
	if err := os.WriteFile(filepath.Join(p.localDir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save export locally: %w", err)
	}
	log.Printf("Job %d: saved export locally (OSS not configured)", jobID)
	return "local://" + name, nil
}

// RequeuePending 重新投递 queued 状态的任务（worker 重启前可能已出队但未处理）
func (p *Processor) RequeuePending(ctx context.Context, q Pusher, limit int) (int, error) {
	jobs, err := p.jobRepo.GetPendingJobs(limit)
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		if err := q.Push(ctx, &queue.JobMessage{JobID: job.ID, Kind: job.Kind}); err != nil {
			return 0, fmt.Errorf("requeue job %d: %w", job.ID, err)
		}
	}
	return len(jobs), nil
}

