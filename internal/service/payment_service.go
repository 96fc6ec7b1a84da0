package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/pkg/email"
	"github.com/qs3c/academy_server/internal/repository"
)

// ReceiptMailer 缴费收据邮件
type ReceiptMailer interface {
	Enabled() bool
	SendPaymentReceipt(to string, r *email.Receipt) error
}

type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	studentRepo *repository.StudentRepository
	sync        *ledgerSync
	mailer      ReceiptMailer
	cfg         *config.Config
	now         func() time.Time
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	studentRepo *repository.StudentRepository,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		sync:        &ledgerSync{studentRepo: studentRepo, paymentRepo: paymentRepo},
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *PaymentService) SetPublisher(p EventPublisher) {
	s.sync.publisher = p
}

func (s *PaymentService) SetMailer(m ReceiptMailer) {
	s.mailer = m
}

// Create 记录一笔缴费并刷新学员状态
func (s *PaymentService) Create(req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	date := billing.DateOf(s.now())
	if req.PaymentDate != "" {
		d, err := billing.ParseDate(req.PaymentDate)
		if err != nil {
			return nil, &ValidationError{Field: "payment_date", Reason: "日期格式应为 YYYY-MM-DD"}
		}
		date = d
	}

	method := req.Method
	if method == "" {
		method = model.PaymentMethodCash
	}

	student, err := s.studentRepo.GetByID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	payment := &model.Payment{
		StudentID:   student.ID,
		Reference:   newPaymentReference(),
		Amount:      req.Amount,
		PaymentDate: date,
		Method:      method,
		Notes:       req.Notes,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	c, err := s.sync.resync(student)
	if err != nil {
		return nil, err
	}

	s.sendReceipt(student, payment, c.AmountDue)

	return &dto.CreatePaymentResponse{
		Payment:       toPaymentItem(payment),
		StudentStatus: c.Status,
		AmountDue:     c.AmountDue,
	}, nil
}

// sendReceipt 收据发送失败不影响缴费结果
func (s *PaymentService) sendReceipt(student *model.Student, p *model.Payment, due int64) {
	if s.mailer == nil || !s.mailer.Enabled() || student.Email == nil || *student.Email == "" {
		return
	}

	err := s.mailer.SendPaymentReceipt(*student.Email, &email.Receipt{
		StudentName: student.Name,
		Package:     student.Package,
		Reference:   p.Reference,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Method:      p.Method,
		AmountDue:   due,
	})
	if err != nil {
		log.Printf("Failed to send receipt %s to student %d: %v", p.Reference, student.ID, err)
	}
}

// List 缴费列表，studentID 为 0 时返回全部
func (s *PaymentService) List(studentID int64) ([]*dto.PaymentItem, error) {
	if studentID == 0 {
		payments, err := s.paymentRepo.List()
		if err != nil {
			return nil, err
		}
		return toPaymentItems(payments), nil
	}

	exists, err := s.studentRepo.Exists(studentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStudentNotFound
	}
	payments, err := s.paymentRepo.ListByStudentID(studentID)
	if err != nil {
		return nil, err
	}
	return toPaymentItems(payments), nil
}

func (s *PaymentService) Get(id int64) (*dto.PaymentItem, error) {
	payment, err := s.getPayment(id)
	if err != nil {
		return nil, err
	}
	return toPaymentItem(payment), nil
}

// Delete 删除缴费记录并刷新学员状态
func (s *PaymentService) Delete(id int64) error {
	payment, err := s.getPayment(id)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(payment.ID); err != nil {
		return err
	}

	student, err := s.studentRepo.GetByID(payment.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	_, err = s.sync.resync(student)
	return err
}

func (s *PaymentService) getPayment(id int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// PurgeOrphans 删除学员已不存在的缴费记录，dryRun 时只返回列表。
// 单条删除失败不影响其余记录，返回已删除的记录和 *PurgeError
func (s *PaymentService) PurgeOrphans(dryRun bool) ([]*dto.PaymentItem, error) {
	orphans, err := s.paymentRepo.ListOrphans()
	if err != nil {
		return nil, err
	}
	if dryRun {
		return toPaymentItems(orphans), nil
	}

	var (
		purged   []*model.Payment
		failures []CascadeFailure
	)
	for _, p := range orphans {
		if err := s.paymentRepo.Delete(p.ID); err != nil {
			log.Printf("Failed to delete orphan payment %d: %v", p.ID, err)
			failures = append(failures, CascadeFailure{PaymentID: p.ID, Error: err.Error()})
			continue
		}
		log.Printf("Deleted orphan payment %d (student %d, amount %d)", p.ID, p.StudentID, p.Amount)
		purged = append(purged, p)
	}

	if len(failures) > 0 {
		return toPaymentItems(purged), &PurgeError{Failures: failures}
	}
	return toPaymentItems(purged), nil
}
