package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/newsfeed"
	"github.com/qs3c/academy_server/internal/pkg/pubsub"
	"github.com/qs3c/academy_server/internal/repository"
)

// ImageUploader 新闻图片上传（OSS）
type ImageUploader interface {
	UploadNewsImage(data []byte, ext string) (string, error)
	DeleteByURL(url string) error
}

var imageExts = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type NewsService struct {
	newsRepo  *repository.NewsRepository
	uploader  ImageUploader
	publisher EventPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewNewsService(newsRepo *repository.NewsRepository, cfg *config.Config) *NewsService {
	return &NewsService{
		newsRepo: newsRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetUploader 未设置时图片以 data URL 原样保存
func (s *NewsService) SetUploader(u ImageUploader) {
	s.uploader = u
}

func (s *NewsService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

func (s *NewsService) Create(req *dto.SaveNewsRequest) (*dto.NewsItem, error) {
	news := &model.News{PublishedAt: s.now().UTC()}
	if err := s.apply(news, req); err != nil {
		return nil, err
	}

	if err := s.newsRepo.Create(news); err != nil {
		return nil, err
	}

	if news.Status == model.NewsStatusPublished {
		s.announce(news)
	}
	return toNewsItem(news), nil
}

func (s *NewsService) Update(id int64, req *dto.SaveNewsRequest) (*dto.NewsItem, error) {
	news, err := s.getNews(id)
	if err != nil {
		return nil, err
	}
	wasPublished := news.Status == model.NewsStatusPublished
	oldImage := news.Image

	if err := s.apply(news, req); err != nil {
		return nil, err
	}

	if err := s.newsRepo.Update(news); err != nil {
		return nil, err
	}
	if news.Image != oldImage {
		s.releaseImage(oldImage)
	}

	if !wasPublished && news.Status == model.NewsStatusPublished {
		s.announce(news)
	}
	return toNewsItem(news), nil
}

// apply 校验请求并写入 news，图片在校验全部通过后才上传
func (s *NewsService) apply(news *model.News, req *dto.SaveNewsRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if len(req.Content) > s.maxContentBytes() {
		return &ValidationError{Field: "content", Reason: fmt.Sprintf("内容不能超过 %d 字节", s.maxContentBytes())}
	}

	if req.Date != "" {
		at, err := parseNewsDate(req.Date)
		if err != nil {
			return &ValidationError{Field: "date", Reason: "日期格式应为 RFC3339 或 YYYY-MM-DD"}
		}
		news.PublishedAt = at
	}

	var image *string
	switch {
	case req.Image != "":
		stored, err := s.storeImage(req.Image)
		if err != nil {
			return err
		}
		image = &stored
	case req.RemoveImage:
		empty := ""
		image = &empty
	}

	news.Title = req.Title
	news.Category = req.Category
	news.Content = req.Content
	news.IsBreaking = req.IsBreaking
	news.IsHighlighted = req.IsHighlighted
	news.Status = req.Status
	if news.Status == "" {
		news.Status = model.NewsStatusDraft
	}
	if image != nil {
		news.Image = *image
	}
	return nil
}

// storeImage data URL 上传到对象存储后换成 URL；普通 URL 原样保存
func (s *NewsService) storeImage(image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	data, ext, err := decodeDataURL(image)
	if err != nil {
		return "", err
	}
	if err := s.CheckImageSize(int64(len(data))); err != nil {
		return "", err
	}

	if s.uploader == nil {
		return image, nil
	}
	return s.uploader.UploadNewsImage(data, ext)
}

// UploadImage 单独上传新闻封面图
func (s *NewsService) UploadImage(id int64, data []byte, contentType string) (*dto.NewsItem, error) {
	news, err := s.getNews(id)
	if err != nil {
		return nil, err
	}

	ext, ok := imageExts[strings.ToLower(contentType)]
	if !ok {
		return nil, &ValidationError{Field: "image", Reason: "仅支持 png、jpeg、gif、webp 图片"}
	}
	if err := s.CheckImageSize(int64(len(data))); err != nil {
		return nil, err
	}

	var image string
	if s.uploader != nil {
		image, err = s.uploader.UploadNewsImage(data, ext)
		if err != nil {
			return nil, err
		}
	} else {
		image = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	}

	if err := s.newsRepo.UpdateImage(news.ID, image); err != nil {
		return nil, err
	}
	s.releaseImage(news.Image)
	news.Image = image
	return toNewsItem(news), nil
}

// releaseImage 删除对象存储中不再引用的图片，失败只记录日志
func (s *NewsService) releaseImage(image string) {
	if s.uploader == nil || image == "" || strings.HasPrefix(image, "data:") {
		return
	}
	if err := s.uploader.DeleteByURL(image); err != nil {
		log.Printf("Failed to delete news image %s: %v", image, err)
	}
}

func (s *NewsService) Delete(id int64) error {
	news, err := s.getNews(id)
	if err != nil {
		return err
	}
	if err := s.newsRepo.Delete(news.ID); err != nil {
		return err
	}
	s.releaseImage(news.Image)
	return nil
}

func (s *NewsService) Get(id int64) (*dto.NewsItem, error) {
	news, err := s.getNews(id)
	if err != nil {
		return nil, err
	}
	return toNewsItem(news), nil
}

// List 管理端列表，包含草稿
func (s *NewsService) List(category, status string) ([]*dto.NewsItem, error) {
	items, err := s.newsRepo.List(category, status)
	if err != nil {
		return nil, err
	}
	return toNewsItems(items), nil
}

// Feed 公开新闻列表
func (s *NewsService) Feed(category string) ([]*dto.NewsItem, error) {
	items, err := s.newsRepo.ListPublished()
	if err != nil {
		return nil, err
	}
	return toNewsItems(newsfeed.SelectFeed(items, category)), nil
}

// Breaking 按 now 计算当前的突发公告，没有时返回 nil
func (s *NewsService) Breaking(now time.Time) (*dto.NewsItem, error) {
	items, err := s.newsRepo.ListPublished()
	if err != nil {
		return nil, err
	}
	news := newsfeed.DetectBreaking(items, now)
	if news == nil {
		return nil, nil
	}
	return toNewsItem(news), nil
}

func (s *NewsService) announce(news *model.News) {
	publish(s.publisher, &pubsub.Event{
		Type:    pubsub.EventNewsPublished,
		NewsID:  news.ID,
		Message: news.Title,
		Data:    map[string]interface{}{"category": news.Category, "date": news.PublishedAt.UTC().Format(time.RFC3339)},
	})
}

// CheckImageSize 封面图大小上限
func (s *NewsService) CheckImageSize(size int64) error {
	if size > s.maxImageBytes() {
		return &ValidationError{Field: "image", Reason: fmt.Sprintf("图片不能超过 %d 字节", s.maxImageBytes())}
	}
	return nil
}

func (s *NewsService) maxContentBytes() int {
	if s.cfg != nil && s.cfg.News.MaxContentBytes > 0 {
		return s.cfg.News.MaxContentBytes
	}
	return config.DefaultMaxContentBytes
}

func (s *NewsService) maxImageBytes() int64 {
	if s.cfg != nil && s.cfg.News.MaxImageBytes > 0 {
		return s.cfg.News.MaxImageBytes
	}
	return config.DefaultMaxImageBytes
}

func (s *NewsService) getNews(id int64) (*model.News, error) {
	news, err := s.newsRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return news, nil
}

func parseNewsDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return billing.ParseDate(s)
}

// decodeDataURL 解析 data:image/png;base64,xxx
func decodeDataURL(s string) ([]byte, string, error) {
	invalid := &ValidationError{Field: "image", Reason: "图片数据格式错误"}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", invalid
	}
	mime, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, "", invalid
	}
	ext, ok := imageExts[strings.ToLower(mime)]
	if !ok {
		return nil, "", &ValidationError{Field: "image", Reason: "仅支持 png、jpeg、gif、webp 图片"}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", invalid
	}
	return data, ext, nil
}
