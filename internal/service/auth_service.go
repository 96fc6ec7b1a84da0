package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/jwt"
	"github.com/qs3c/academy_server/internal/repository"
)

type AuthService struct {
	adminRepo *repository.AdminRepository
	cfg       *config.Config
}

func NewAuthService(adminRepo *repository.AdminRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// EnsureAdmin 按配置创建或更新管理员账号
func (s *AuthService) EnsureAdmin() error {
	username, hash := s.cfg.Admin.Username, s.cfg.Admin.PasswordHash
	if username == "" {
		log.Println("No admin configured, skipping admin bootstrap")
		return nil
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return fmt.Errorf("admin.password_hash is not a bcrypt hash: %w", err)
	}

	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		log.Printf("Creating admin %s", username)
		return s.adminRepo.Create(&model.Admin{Username: username, PasswordHash: hash})
	}

	if admin.PasswordHash != hash {
		log.Printf("Updating password of admin %s", username)
		return s.adminRepo.UpdatePasswordHash(admin.ID, hash)
	}
	return nil
}

// Login 管理员登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(admin.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.adminRepo.UpdateLastLogin(admin.ID, now); err != nil {
		log.Printf("Failed to record login of admin %d: %v", admin.ID, err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: s.cfg.JWT.ExpireHours * 3600,
		Admin: &dto.AdminInfo{
			ID:          admin.ID,
			Username:    admin.Username,
			LastLoginAt: now.UTC().Format(time.RFC3339),
		},
	}, nil
}
