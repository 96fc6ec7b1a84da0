package oss

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"

	"github.com/qs3c/academy_server/config"
)

type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

// UploadNewsImage 上传新闻封面图
func (c *Client) UploadNewsImage(data []byte, ext string) (string, error) {
	return c.UploadFile(NewsImageKey(time.Now(), ext), data, ContentType(ext))
}

// UploadExport 上传导出的工作簿
func (c *Client) UploadExport(jobID int64, data []byte) (string, error) {
	return c.UploadFile(ExportKey(jobID, time.Now()), data, ContentType(".xlsx"))
}

// UploadFile 上传通用文件
func (c *Client) UploadFile(objectKey string, data []byte, contentType string) (string, error) {
	err := c.bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return c.GetURL(objectKey), nil
}

// Delete 删除文件
func (c *Client) Delete(objectKey string) error {
	if err := c.bucket.DeleteObject(objectKey); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteByURL 按访问 URL 删除文件，不属于本 bucket 的 URL 忽略
func (c *Client) DeleteByURL(url string) error {
	if !c.OwnsURL(url) {
		return nil
	}
	return c.Delete(ExtractObjectKey(url, c.cdnDomain))
}

// OwnsURL URL 是否由本 bucket 生成
func (c *Client) OwnsURL(url string) bool {
	return strings.HasPrefix(url, c.GetURL(""))
}

// GetURL 获取文件访问 URL
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, objectKey)
	}
	return fmt.Sprintf("https://%s.%s/%s", c.bucketName, c.client.Config.Endpoint, objectKey)
}

// NewsImageKey news/<yyyy>/<mm>/<uuid><ext>
func NewsImageKey(now time.Time, ext string) string {
	return fmt.Sprintf("news/%s/%s%s", now.UTC().Format("2006/01"), uuid.NewString(), ext)
}

// ExportKey exports/<job id>/ledger-<yyyymmdd>-<uuid>.xlsx
func ExportKey(jobID int64, now time.Time) string {
	return fmt.Sprintf("exports/%d/ledger-%s-%s.xlsx", jobID, now.UTC().Format("20060102"), uuid.NewString()[:8])
}

// ContentType 根据扩展名获取 Content-Type
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ExtractObjectKey 从 URL 中提取 object key
func ExtractObjectKey(url, cdnDomain string) string {
	if cdnDomain != "" {
		prefix := fmt.Sprintf("https://%s/", cdnDomain)
		if strings.HasPrefix(url, prefix) {
			return url[len(prefix):]
		}
	}

	// https://bucket-name.endpoint/path/to/object
	parts := strings.Split(url, "/")
	if len(parts) >= 4 {
		return strings.Join(parts[3:], "/")
	}

	return path.Base(url)
}
