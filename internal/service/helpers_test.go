package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/pkg/email"
	"github.com/qs3c/academy_server/internal/pkg/pubsub"
	"github.com/qs3c/academy_server/internal/pkg/queue"
	"github.com/qs3c/academy_server/internal/repository"
	"github.com/qs3c/academy_server/internal/testutil"
)

var fixedNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakePublisher struct {
	mu     sync.Mutex
	events []*pubsub.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e *pubsub.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) ofType(typ string) []*pubsub.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*pubsub.Event
	for _, e := range p.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type sentReceipt struct {
	to      string
	receipt *email.Receipt
}

type fakeMailer struct {
	enabled bool
	sent    []sentReceipt
	err     error
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendPaymentReceipt(to string, r *email.Receipt) error {
	m.sent = append(m.sent, sentReceipt{to: to, receipt: r})
	return m.err
}

type fakeUploader struct {
	uploads   [][]byte
	exts      []string
	deleted   []string
	err       error
	deleteErr error
}

func (u *fakeUploader) UploadNewsImage(data []byte, ext string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.uploads = append(u.uploads, data)
	u.exts = append(u.exts, ext)
	return "https://cdn.example.com/news/img" + ext, nil
}

func (u *fakeUploader) DeleteByURL(url string) error {
	u.deleted = append(u.deleted, url)
	return u.deleteErr
}

type fakeQueue struct {
	pushed []*queue.JobMessage
	err    error
}

func (q *fakeQueue) Push(_ context.Context, msg *queue.JobMessage) error {
	if q.err != nil {
		return q.err
	}
	q.pushed = append(q.pushed, msg)
	return nil
}

var errStorage = errors.New("storage unavailable")

type testEnv struct {
	db       *gorm.DB
	students *StudentService
	payments *PaymentService
	pub      *fakePublisher
}

func setupLedger(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	cfg := &config.Config{}
	pub := &fakePublisher{}

	students := NewStudentService(studentRepo, paymentRepo, cfg)
	students.now = fixedClock
	students.SetPublisher(pub)

	payments := NewPaymentService(paymentRepo, studentRepo, cfg)
	payments.now = fixedClock
	payments.SetPublisher(pub)

	return &testEnv{db: db, students: students, payments: payments, pub: pub}
}
