package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/internal/model"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.db.Create(student).Error
}

// CreateWithPayment 在同一事务中创建学员和首笔缴费
func (r *StudentRepository) CreateWithPayment(student *model.Student, payment *model.Payment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return err
		}
		payment.StudentID = student.ID
		return tx.Create(payment).Error
	})
}

// UpdateWithPayment 在同一事务中保存学员并补记一笔缴费
func (r *StudentRepository) UpdateWithPayment(student *model.Student, payment *model.Payment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(student).Error; err != nil {
			return err
		}
		payment.StudentID = student.ID
		return tx.Create(payment).Error
	})
}

func (r *StudentRepository) GetByID(id int64) (*model.Student, error) {
	var student model.Student
	err := r.db.Where("id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Student{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List 按创建时间倒序列出学员，search 匹配姓名或电话
func (r *StudentRepository) List(search string) ([]*model.Student, error) {
	var students []*model.Student

	query := r.db.Model(&model.Student{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	err := query.Order("created_at DESC").Order("id DESC").Find(&students).Error
	return students, err
}

// ListExpired 结束日期早于 before 且仍标记为 Paid 的学员
func (r *StudentRepository) ListExpired(before time.Time) ([]*model.Student, error) {
	var students []*model.Student
	err := r.db.Where("end_date < ? AND status = ?", before, model.StudentStatusPaid).
		Order("end_date ASC").
		Find(&students).Error
	return students, err
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.db.Save(student).Error
}

func (r *StudentRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Student{}).Where("id = ?", id).Update("status", status).Error
}

func (r *StudentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Student{}, id).Error
}
