package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/academy_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List 按缴费日期倒序列出全部缴费
func (r *PaymentRepository) List() ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Order("payment_date DESC").Order("id DESC").Find(&payments).Error
	return payments, err
}

// ListByStudentID 按缴费日期倒序列出学员的缴费
func (r *PaymentRepository) ListByStudentID(studentID int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("student_id = ?", studentID).
		Order("payment_date DESC").Order("id DESC").
		Find(&payments).Error
	return payments, err
}

// IDsByStudentID 按 id 升序返回学员的缴费 id，级联删除按此顺序进行
func (r *PaymentRepository) IDsByStudentID(studentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Payment{}).
		Where("student_id = ?", studentID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// ListOrphans 找出学员已不存在的缴费记录
func (r *PaymentRepository) ListOrphans() ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("student_id NOT IN (?)", r.db.Model(&model.Student{}).Select("id")).
		Order("id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Payment{}, id).Error
}
