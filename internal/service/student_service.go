package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/repository"
)

type StudentService struct {
	studentRepo *repository.StudentRepository
	paymentRepo *repository.PaymentRepository
	sync        *ledgerSync
	cfg         *config.Config
	now         func() time.Time
}

func NewStudentService(
	studentRepo *repository.StudentRepository,
	paymentRepo *repository.PaymentRepository,
	cfg *config.Config,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		paymentRepo: paymentRepo,
		sync:        &ledgerSync{studentRepo: studentRepo, paymentRepo: paymentRepo},
		cfg:         cfg,
		now:         time.Now,
	}
}

// SetPublisher 设置状态变化事件的发布者
func (s *StudentService) SetPublisher(p EventPublisher) {
	s.sync.publisher = p
}

// Create 新增学员。请求 Paid 时同时记一笔覆盖全额的现金缴费
func (s *StudentService) Create(req *dto.CreateStudentRequest) (*dto.StudentItem, error) {
	student, err := s.buildStudent(&model.Student{}, req)
	if err != nil {
		return nil, err
	}
	student.Status = model.StudentStatusPending

	if req.Status == model.StudentStatusPaid && student.Amount > 0 {
		payment := syntheticPayment(student.Amount, student.StartDate,
			fmt.Sprintf("Initial payment for %s package", student.Package))
		err = s.studentRepo.CreateWithPayment(student, payment)
	} else {
		err = s.studentRepo.Create(student)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.sync.resync(student); err != nil {
		return nil, err
	}
	return toStudentItem(student), nil
}

// Register 公开报名：状态 Pending，开始日期为当天，金额为套餐价格
func (s *StudentService) Register(req *dto.RegisterRequest) (*dto.StudentItem, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.Create(&dto.CreateStudentRequest{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Package:   req.Package,
		StartDate: billing.DateOf(s.now()).Format(billing.DateLayout),
		Status:    model.StudentStatusPending,
	})
}

// Update 整体更新学员。请求 Paid 而流水不足时补记差额；
// 请求 Pending 但流水已足额时以流水为准
func (s *StudentService) Update(id int64, req *dto.UpdateStudentRequest) (*dto.StudentItem, error) {
	existing, err := s.getStudent(id)
	if err != nil {
		return nil, err
	}

	student, err := s.buildStudent(existing, req)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByStudentID(student.ID)
	if err != nil {
		return nil, err
	}
	c := billing.Classify(student, payments)

	if req.Status == model.StudentStatusPaid && c.Status == model.StudentStatusPending {
		payment := syntheticPayment(c.AmountDue, billing.DateOf(s.now()),
			fmt.Sprintf("Payment received for %s package", student.Package))
		err = s.studentRepo.UpdateWithPayment(student, payment)
	} else {
		err = s.studentRepo.Update(student)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.sync.resync(student); err != nil {
		return nil, err
	}
	return toStudentItem(student), nil
}

// buildStudent 校验请求并写入 student，未指定金额时：新建或换套餐取套餐价格，否则保持原值
func (s *StudentService) buildStudent(student *model.Student, req *dto.CreateStudentRequest) (*model.Student, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	pkg, err := billing.LookupPackage(req.Package)
	if err != nil {
		return nil, err
	}

	start, err := billing.ParseDate(req.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Reason: "日期格式应为 YYYY-MM-DD"}
	}

	end, err := billing.ComputeEndDate(start, pkg.Name)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Amount != nil:
		student.Amount = *req.Amount
	case student.ID == 0 || student.Package != pkg.Name:
		student.Amount = pkg.Price
	}

	student.Name = req.Name
	student.Phone = req.Phone
	student.Email = req.Email
	student.Package = pkg.Name
	student.StartDate = start
	student.EndDate = end
	return student, nil
}

func syntheticPayment(amount int64, date time.Time, notes string) *model.Payment {
	return &model.Payment{
		Reference:   newPaymentReference(),
		Amount:      amount,
		PaymentDate: date,
		Method:      model.PaymentMethodCash,
		Notes:       notes,
	}
}

func newPaymentReference() string {
	return "PAY-" + uuid.NewString()
}

// Delete 先按 id 顺序逐条删除缴费记录，遇到失败继续；
// 有任何一条失败则保留学员并返回 CascadeError
func (s *StudentService) Delete(id int64) error {
	student, err := s.getStudent(id)
	if err != nil {
		return err
	}

	ids, err := s.paymentRepo.IDsByStudentID(student.ID)
	if err != nil {
		return err
	}

	var failures []CascadeFailure
	for _, paymentID := range ids {
		if err := s.paymentRepo.Delete(paymentID); err != nil {
			log.Printf("Failed to delete payment %d of student %d: %v", paymentID, student.ID, err)
			failures = append(failures, CascadeFailure{PaymentID: paymentID, Error: err.Error()})
		}
	}
	if len(failures) > 0 {
		return &CascadeError{StudentID: student.ID, Failures: failures}
	}

	return s.studentRepo.Delete(student.ID)
}

// Get 获取学员
func (s *StudentService) Get(id int64) (*dto.StudentItem, error) {
	student, err := s.getStudent(id)
	if err != nil {
		return nil, err
	}
	return toStudentItem(student), nil
}

// List 列出学员，状态由缴费记录实时推导
func (s *StudentService) List(search, status string) ([]*dto.StudentItem, error) {
	students, payments, err := s.loadLedger(search)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.StudentItem, 0, len(students))
	for _, st := range billing.Reclassify(students, payments) {
		if status != "" && st.Status != status {
			continue
		}
		items = append(items, toStudentItem(st))
	}
	return items, nil
}

// Classification 学员的缴费状态明细
func (s *StudentService) Classification(id int64) (*dto.ClassificationResponse, error) {
	student, err := s.getStudent(id)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByStudentID(student.ID)
	if err != nil {
		return nil, err
	}

	c := billing.Classify(student, payments)
	return &dto.ClassificationResponse{
		StudentID:  student.ID,
		Status:     c.Status,
		AmountDue:  c.AmountDue,
		AmountPaid: c.AmountPaid,
		Payments:   toPaymentItems(payments),
	}, nil
}

// Reconcile 全量对账：修正与流水不一致的缓存状态，并列出已过期仍为 Paid 的学员
func (s *StudentService) Reconcile() (*dto.ReconcileResult, error) {
	students, payments, err := s.loadLedger("")
	if err != nil {
		return nil, err
	}

	result := &dto.ReconcileResult{Checked: len(students), Updated: []int64{}, Expired: []int64{}}
	byStudent := billing.GroupByStudent(payments)
	for _, st := range students {
		c := billing.Classify(st, byStudent[st.ID])
		if c.Status == st.Status {
			continue
		}
		if err := s.studentRepo.UpdateStatus(st.ID, c.Status); err != nil {
			log.Printf("Reconcile: failed to update student %d: %v", st.ID, err)
			result.Failures++
			continue
		}
		result.Updated = append(result.Updated, st.ID)
	}

	expired, err := s.studentRepo.ListExpired(billing.DateOf(s.now()))
	if err != nil {
		return nil, err
	}
	for _, st := range expired {
		log.Printf("Reconcile: student %d (%s) expired on %s but still marked Paid",
			st.ID, st.Name, st.EndDate.Format(billing.DateLayout))
		result.Expired = append(result.Expired, st.ID)
	}

	return result, nil
}

func (s *StudentService) loadLedger(search string) ([]*model.Student, []*model.Payment, error) {
	students, err := s.studentRepo.List(search)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.paymentRepo.List()
	if err != nil {
		return nil, nil, err
	}
	return students, payments, nil
}

func (s *StudentService) getStudent(id int64) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}
