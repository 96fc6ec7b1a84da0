package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
)

// Date 返回 UTC 零点的日期
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestStudent 创建测试学员，默认 1 Month 套餐、Pending
func TestStudent(t *testing.T, db *gorm.DB, opts ...func(*model.Student)) *model.Student {
	t.Helper()

	start := Date(2024, time.January, 15)
	student := &model.Student{
		Name:      fmt.Sprintf("Student %d", time.Now().UnixNano()%100000),
		Phone:     "0771234567",
		Package:   "1 Month",
		StartDate: start,
		Amount:    4000,
		Status:    model.StudentStatusPending,
	}

	for _, opt := range opts {
		opt(student)
	}

	if student.EndDate.IsZero() {
		end, err := billing.ComputeEndDate(student.StartDate, student.Package)
		if err != nil {
			t.Fatalf("Failed to compute end date: %v", err)
		}
		student.EndDate = end
	}

	if err := db.Create(student).Error; err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}

	return student
}

// WithName 设置学员姓名
func WithName(name string) func(*model.Student) {
	return func(s *model.Student) {
		s.Name = name
	}
}

// WithStudentEmail 设置学员邮箱
func WithStudentEmail(email string) func(*model.Student) {
	return func(s *model.Student) {
		s.Email = &email
	}
}

// WithPackage 设置套餐，金额同步为套餐价格
func WithPackage(name string) func(*model.Student) {
	return func(s *model.Student) {
		s.Package = name
		if price, err := billing.LookupPrice(name); err == nil {
			s.Amount = price
		}
	}
}

// WithAmount 设置应缴金额
func WithAmount(amount int64) func(*model.Student) {
	return func(s *model.Student) {
		s.Amount = amount
	}
}

// WithStartDate 设置开始日期
func WithStartDate(start time.Time) func(*model.Student) {
	return func(s *model.Student) {
		s.StartDate = start
	}
}

// WithEndDate 直接指定结束日期
func WithEndDate(end time.Time) func(*model.Student) {
	return func(s *model.Student) {
		s.EndDate = end
	}
}

// WithStudentStatus 设置缓存的缴费状态
func WithStudentStatus(status string) func(*model.Student) {
	return func(s *model.Student) {
		s.Status = status
	}
}

// TestPayment 创建测试缴费记录
func TestPayment(t *testing.T, db *gorm.DB, studentID, amount int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		StudentID:   studentID,
		Reference:   fmt.Sprintf("PAY-TEST-%d", time.Now().UnixNano()),
		Amount:      amount,
		PaymentDate: Date(2024, time.January, 15),
		Method:      model.PaymentMethodCash,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithPaymentDate 设置缴费日期
func WithPaymentDate(d time.Time) func(*model.Payment) {
	return func(p *model.Payment) {
		p.PaymentDate = d
	}
}

// WithMethod 设置付款方式
func WithMethod(method string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Method = method
	}
}

// TestNews 创建测试新闻，默认已发布
func TestNews(t *testing.T, db *gorm.DB, opts ...func(*model.News)) *model.News {
	t.Helper()

	news := &model.News{
		Title:       fmt.Sprintf("News %d", time.Now().UnixNano()%100000),
		Category:    "events",
		Content:     "<p>content</p>",
		Status:      model.NewsStatusPublished,
		PublishedAt: time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(news)
	}

	if err := db.Create(news).Error; err != nil {
		t.Fatalf("Failed to create test news: %v", err)
	}

	return news
}

// WithCategory 设置新闻分类
func WithCategory(category string) func(*model.News) {
	return func(n *model.News) {
		n.Category = category
	}
}

// WithNewsStatus 设置新闻状态
func WithNewsStatus(status string) func(*model.News) {
	return func(n *model.News) {
		n.Status = status
	}
}

// WithPublishedAt 设置发布时间
func WithPublishedAt(at time.Time) func(*model.News) {
	return func(n *model.News) {
		n.PublishedAt = at
	}
}

// TestAdmin 创建测试管理员，passwordHash 为 bcrypt 哈希
func TestAdmin(t *testing.T, db *gorm.DB, username, passwordHash string) *model.Admin {
	t.Helper()

	admin := &model.Admin{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return admin
}

// TestExportJob 创建测试导出任务
func TestExportJob(t *testing.T, db *gorm.DB, status string) *model.ExportJob {
	t.Helper()

	job := &model.ExportJob{
		Kind:   model.ExportKindLedger,
		Status: status,
	}

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test export job: %v", err)
	}

	return job
}
