package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qs3c/academy_server/internal/database"
)

// SetupTestDB 创建测试数据库（SQLite 内存模式）
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}

	// 内存库每个连接各自独立，只保留一个连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close test database: %v", err)
	}
}

// FailDeletesOn 让指定表上的删除操作返回 err，用于模拟存储层故障
func FailDeletesOn(t *testing.T, db *gorm.DB, table string, err error) {
	t.Helper()

	name := "testutil:fail_delete_" + table
	cbErr := db.Callback().Delete().Before("gorm:delete").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(err)
		}
	})
	if cbErr != nil {
		t.Fatalf("Failed to register delete callback: %v", cbErr)
	}
	t.Cleanup(func() {
		_ = db.Callback().Delete().Remove(name)
	})
}

// FailQueriesOn 让指定表上的查询返回 err
func FailQueriesOn(t *testing.T, db *gorm.DB, table string, err error) {
	t.Helper()

	name := "testutil:fail_query_" + table
	cbErr := db.Callback().Query().Before("gorm:query").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(err)
		}
	})
	if cbErr != nil {
		t.Fatalf("Failed to register query callback: %v", cbErr)
	}
	t.Cleanup(func() {
		_ = db.Callback().Query().Remove(name)
	})
}
