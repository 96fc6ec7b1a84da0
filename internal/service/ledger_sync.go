package service

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/academy_server/internal/billing"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/pkg/pubsub"
	"github.com/qs3c/academy_server/internal/repository"
)

// EventPublisher 实时事件发布（Redis pub/sub）
type EventPublisher interface {
	Publish(ctx context.Context, event *pubsub.Event) error
}

// publish 尽力发布，失败只记日志
func publish(p EventPublisher, event *pubsub.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s event: %v", event.Type, err)
	}
}

// ledgerSync 按缴费记录重新推导学员状态，并写回 students.status 缓存列
type ledgerSync struct {
	studentRepo *repository.StudentRepository
	paymentRepo *repository.PaymentRepository
	publisher   EventPublisher
}

func (l *ledgerSync) resync(student *model.Student) (billing.Classification, error) {
	payments, err := l.paymentRepo.ListByStudentID(student.ID)
	if err != nil {
		return billing.Classification{}, err
	}

	c := billing.Classify(student, payments)
	if c.Status != student.Status {
		if err := l.studentRepo.UpdateStatus(student.ID, c.Status); err != nil {
			return c, err
		}
		student.Status = c.Status
		publish(l.publisher, &pubsub.Event{
			Type:      pubsub.EventLedgerChanged,
			StudentID: student.ID,
			Status:    c.Status,
		})
	}
	return c, nil
}
