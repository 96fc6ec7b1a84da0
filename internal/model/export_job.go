package model

import (
	"time"
)

const ExportKindLedger = "ledger"

type ExportJob struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	Kind           string     `gorm:"size:20;not null" json:"kind"`
	RequestedBy    int64      `gorm:"index" json:"requested_by"`
	Status         string     `gorm:"size:20;default:queued;index" json:"status"` // queued, processing, completed, failed
	FileURL        string     `gorm:"size:500" json:"file_url,omitempty"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds,omitempty"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}
