package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/api"
	"github.com/qs3c/academy_server/internal/api/handler"
	"github.com/qs3c/academy_server/internal/database"
	"github.com/qs3c/academy_server/internal/pkg/cron"
	"github.com/qs3c/academy_server/internal/pkg/email"
	"github.com/qs3c/academy_server/internal/pkg/oss"
	"github.com/qs3c/academy_server/internal/pkg/pubsub"
	"github.com/qs3c/academy_server/internal/pkg/queue"
	"github.com/qs3c/academy_server/internal/pkg/ws"
	"github.com/qs3c/academy_server/internal/repository"
	"github.com/qs3c/academy_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Database connected (%s)", cfg.Database.Driver)

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	publisher := pubsub.NewPublisher(rdb)
	jobQueue := queue.NewQueue(rdb, cfg.Queue.ExportQueue)

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Repository
	adminRepo := repository.NewAdminRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(adminRepo, cfg)
	if err := authService.EnsureAdmin(); err != nil {
		log.Fatalf("Failed to bootstrap admin: %v", err)
	}

	studentService := service.NewStudentService(studentRepo, paymentRepo, cfg)
	studentService.SetPublisher(publisher)

	paymentService := service.NewPaymentService(paymentRepo, studentRepo, cfg)
	paymentService.SetPublisher(publisher)
	if mailer := email.NewService(&cfg.Email); mailer.Enabled() {
		paymentService.SetMailer(mailer)
		log.Println("Receipt emails enabled")
	}

	newsService := service.NewNewsService(newsRepo, cfg)
	newsService.SetPublisher(publisher)
	if ossClient != nil {
		newsService.SetUploader(ossClient)
	}

	dashboardService := service.NewDashboardService(studentRepo, paymentRepo)

	exportService := service.NewExportService(studentRepo, paymentRepo, exportJobRepo, cfg)
	exportService.SetQueue(jobQueue)

	// WebSocket Hub，转发 Redis 事件给在线管理员
	wsHub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relayEvents(ctx, pubsub.NewSubscriber(rdb), wsHub)

	// 定时对账
	cronService := cron.NewService(studentService, cfg.Cron.ReconcileSchedule)
	if err := cronService.Start(); err != nil {
		log.Fatalf("Failed to start cron: %v", err)
	}

	// 初始化 Handler
	router := api.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewPackageHandler(),
		handler.NewStudentHandler(studentService),
		handler.NewPaymentHandler(paymentService),
		handler.NewNewsHandler(newsService),
		handler.NewDashboardHandler(dashboardService),
		handler.NewExportHandler(exportService),
		handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins),
		cfg,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router.Setup()}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Printf("Received shutdown signal, closing %d websocket connections", wsHub.ConnectionCount())

	cancel()
	cronService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

// deliver 带 AdminID 的事件只发给该管理员，离线则丢弃
func deliver(hub *ws.Hub, e *pubsub.Event) error {
	msg := &ws.Message{Type: e.Type, Data: e}
	if e.AdminID == 0 {
		return hub.Broadcast(msg)
	}
	if !hub.IsOnline(e.AdminID) {
		return nil
	}
	return hub.SendToAdmin(e.AdminID, msg)
}

// relayEvents 订阅断开后 5 秒重连
func relayEvents(ctx context.Context, sub *pubsub.Subscriber, hub *ws.Hub) {
	for {
		err := sub.Subscribe(ctx, nil, func(e *pubsub.Event) {
			if err := deliver(hub, e); err != nil {
				log.Printf("Failed to deliver %s event: %v", e.Type, err)
			}
		})
		if ctx.Err() != nil {
			return
		}
		log.Printf("Event subscription ended: %v, retrying in 5s", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}
