package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/internal/model"
)

type ExportJobRepository struct {
	db *gorm.DB
}

func NewExportJobRepository(db *gorm.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

func (r *ExportJobRepository) Create(job *model.ExportJob) error {
	return r.db.Create(job).Error
}

func (r *ExportJobRepository) GetByID(id int64) (*model.ExportJob, error) {
	var job model.ExportJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ExportJobRepository) Update(job *model.ExportJob) error {
	return r.db.Save(job).Error
}

// Claim 将排队中的任务置为 processing，任务已被其他 worker 领取时返回 false
func (r *ExportJobRepository) Claim(id int64, startedAt time.Time) (bool, error) {
	result := r.db.Model(&model.ExportJob{}).
		Where("id = ? AND status = ?", id, "queued").
		Updates(map[string]interface{}{"status": "processing", "started_at": startedAt})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetPendingJobs 获取排队中的任务，worker 重启后用于补投
func (r *ExportJobRepository) GetPendingJobs(limit int) ([]*model.ExportJob, error) {
	var jobs []*model.ExportJob
	err := r.db.Where("status = ?", "queued").
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
