package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/database"
	"github.com/qs3c/academy_server/internal/repository"
	"github.com/qs3c/academy_server/internal/service"
)

var (
	dryRun       = flag.Bool("dry-run", true, "Dry run mode, don't actually delete anything")
	cleanOrphans = flag.Bool("clean-orphans", true, "Delete payments whose student no longer exists")
	cleanExports = flag.Bool("clean-exports", true, "Delete expired local export files")
	exportExpire = flag.Int("export-expire", 72, "Hours to keep local export files")
	exportDir    = flag.String("export-dir", filepath.Join(os.TempDir(), "academy_exports"), "Local export directory used by the worker")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	orphanCount := 0
	orphanFailed := 0
	var orphanAmount int64

	// 1. 清理孤立的缴费记录
	if *cleanOrphans {
		log.Println("Scanning payments without a student...")
		paymentService := service.NewPaymentService(
			repository.NewPaymentRepository(db),
			repository.NewStudentRepository(db),
			cfg,
		)
		orphans, err := paymentService.PurgeOrphans(*dryRun)
		var purgeErr *service.PurgeError
		switch {
		case errors.As(err, &purgeErr):
			for _, f := range purgeErr.Failures {
				log.Printf("  ! payment %d not deleted: %s", f.PaymentID, f.Error)
			}
			orphanFailed = len(purgeErr.Failures)
		case err != nil:
			log.Fatalf("Failed to purge orphan payments: %v", err)
		}
		for _, p := range orphans {
			log.Printf("  - payment %d (%s): student %d, amount %d, date %s",
				p.ID, p.Reference, p.StudentID, p.Amount, p.PaymentDate)
			orphanAmount += p.Amount
		}
		orphanCount = len(orphans)
	}

	// 2. 清理本地导出文件
	var exportSize int64
	exportCount := 0
	if *cleanExports {
		log.Printf("Cleaning local export files older than %d hours...", *exportExpire)
		exportSize, exportCount = cleanExpiredExports(*exportDir, *exportExpire, *dryRun)
	}

	// 输出统计
	log.Println(strings.Repeat("=", 60))
	log.Println("Cleanup Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Orphan payments: %d (amount %d), failed: %d", orphanCount, orphanAmount, orphanFailed)
	log.Printf("Export files: %d (%s)", exportCount, formatSize(exportSize))
	if *dryRun {
		log.Println("DRY RUN MODE - nothing was actually deleted")
		log.Println("Run with -dry-run=false to actually delete")
	} else {
		log.Println("Cleanup completed")
	}
	log.Println(strings.Repeat("=", 60))
}

// cleanExpiredExports 清理过期的本地导出文件
func cleanExpiredExports(dir string, expireHours int, dryRun bool) (int64, int) {
	expireTime := time.Now().Add(-time.Duration(expireHours) * time.Hour)
	var totalSize int64
	var count int

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to read export dir: %v", err)
		}
		return 0, 0
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".xlsx" {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(expireTime) {
			continue
		}

		totalSize += info.Size()
		log.Printf("  - %s (%s, %s old)", entry.Name(), formatSize(info.Size()),
			time.Since(info.ModTime()).Round(time.Hour))

		if dryRun {
			count++
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("    Failed to delete: %v", err)
			continue
		}
		count++
	}

	return totalSize, count
}

// formatSize 格式化文件大小
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
