package model

import (
	"time"
)

const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
)

type News struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Category      string    `gorm:"size:50;not null;index" json:"category"`
	Content       string    `gorm:"size:1048576;not null" json:"content"`
	Image         string    `gorm:"size:16777216" json:"image,omitempty"` // OSS 地址或 data URL
	Status        string    `gorm:"size:20;default:draft;index" json:"status"`
	IsBreaking    bool      `gorm:"default:false" json:"is_breaking"`
	IsHighlighted bool      `gorm:"default:false" json:"is_highlighted"`
	PublishedAt   time.Time `gorm:"index" json:"date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (News) TableName() string {
	return "news"
}
