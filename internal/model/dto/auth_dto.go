package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresIn int        `json:"expires_in"` // 秒
	Admin     *AdminInfo `json:"admin"`
}

// AdminInfo 管理员信息
type AdminInfo struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}
