package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/academy_server/internal/model"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(news *model.News) error {
	return r.db.Create(news).Error
}

func (r *NewsRepository) GetByID(id int64) (*model.News, error) {
	var news model.News
	err := r.db.Where("id = ?", id).First(&news).Error
	if err != nil {
		return nil, err
	}
	return &news, nil
}

// List 管理端列表，包含草稿
func (r *NewsRepository) List(category, status string) ([]*model.News, error) {
	var items []*model.News

	query := r.db.Model(&model.News{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Order("published_at DESC").Order("id DESC").Find(&items).Error
	return items, err
}

// ListPublished 按 id 顺序返回已发布的新闻，排序交给 newsfeed
func (r *NewsRepository) ListPublished() ([]*model.News, error) {
	var items []*model.News
	err := r.db.Where("status = ?", model.NewsStatusPublished).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *NewsRepository) Update(news *model.News) error {
	return r.db.Save(news).Error
}

func (r *NewsRepository) UpdateImage(id int64, image string) error {
	return r.db.Model(&model.News{}).Where("id = ?", id).Update("image", image).Error
}

func (r *NewsRepository) Delete(id int64) error {
	return r.db.Delete(&model.News{}, id).Error
}
