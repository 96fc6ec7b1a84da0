package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/database"
	"github.com/qs3c/academy_server/internal/pkg/oss"
	"github.com/qs3c/academy_server/internal/pkg/pubsub"
	"github.com/qs3c/academy_server/internal/pkg/queue"
	"github.com/qs3c/academy_server/internal/repository"
	"github.com/qs3c/academy_server/internal/service"
	"github.com/qs3c/academy_server/internal/worker"
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
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选），未配置时导出文件写到本地
	var storage worker.ExportStorage
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			storage = ossClient
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	jobQueue := queue.NewQueue(rdb, cfg.Queue.ExportQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Repository / Service
	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	jobRepo := repository.NewExportJobRepository(db)
	exportService := service.NewExportService(studentRepo, paymentRepo, jobRepo, cfg)

	// 创建任务处理器
	localDir := filepath.Join(os.TempDir(), "academy_exports")
	processor := worker.NewProcessor(jobRepo, exportService, storage, publisher, localDir)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	// 补投上次退出前未处理的任务
	if n, err := processor.RequeuePending(ctx, jobQueue, 100); err != nil {
		log.Printf("Failed to requeue pending jobs: %v", err)
	} else if n > 0 {
		log.Printf("Requeued %d pending export jobs", n)
	}

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	backlog, err := jobQueue.Length(ctx)
	if err != nil {
		log.Printf("Failed to read queue length: %v", err)
	}
	log.Printf("Worker started, max workers: %d, backlog: %d", maxWorkers, backlog)

	// 启动 worker 循环
	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					// 从队列获取任务
					msg, err := jobQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: processing job %d", workerID, msg.JobID)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: job %d failed: %v", workerID, msg.JobID, err)
					}
				}
			}
		}(i)
	}

	wg.Wait()
	log.Println("Worker shutdown complete")
}
