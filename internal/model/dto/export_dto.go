package dto

// ExportJobItem 导出任务
type ExportJobItem struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	RequestedBy    int64  `json:"requested_by"`
	Status         string `json:"status"`
	FileURL        string `json:"file_url,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	CreatedAt      string `json:"created_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds,omitempty"`
}
