package dto

// SaveNewsRequest 新建或整体更新新闻。date 支持 RFC3339 或 YYYY-MM-DD，
// image 可以是 URL 或 data:image/...;base64 数据，更新时为空表示保留原图
type SaveNewsRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Category      string `json:"category" binding:"required,max=50"`
	Content       string `json:"content" binding:"required"`
	Date          string `json:"date"`
	Status        string `json:"status" binding:"omitempty,oneof=draft published"`
	Image         string `json:"image"`
	IsBreaking    bool   `json:"is_breaking"`
	IsHighlighted bool   `json:"is_highlighted"`
	RemoveImage   bool   `json:"remove_image"`
}

// NewsItem 新闻
type NewsItem struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Content       string `json:"content"`
	Image         string `json:"image,omitempty"`
	Status        string `json:"status"`
	IsBreaking    bool   `json:"is_breaking"`
	IsHighlighted bool   `json:"is_highlighted"`
	Date          string `json:"date"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}
