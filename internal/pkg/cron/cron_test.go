package cron

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/academy_server/config"
	"github.com/qs3c/academy_server/internal/model"
	"github.com/qs3c/academy_server/internal/model/dto"
	"github.com/qs3c/academy_server/internal/repository"
	"github.com/qs3c/academy_server/internal/service"
	"github.com/qs3c/academy_server/internal/testutil"
)

type countingReconciler struct {
	calls  atomic.Int32
	result *dto.ReconcileResult
	err    error
}

func (r *countingReconciler) Reconcile() (*dto.ReconcileResult, error) {
	r.calls.Add(1)
	return r.result, r.err
}

func TestService_StartAndStop(t *testing.T) {
	svc := NewService(&countingReconciler{result: &dto.ReconcileResult{}}, "10 0 * * *")

	require.NoError(t, svc.Start())
	assert.Len(t, svc.cron.Entries(), 1)
	svc.Stop()
}

func TestService_Start_InvalidSchedule(t *testing.T) {
	svc := NewService(&countingReconciler{}, "every day")

	assert.Error(t, svc.Start())
}

func TestService_RunNow(t *testing.T) {
	r := &countingReconciler{result: &dto.ReconcileResult{Checked: 3, Updated: []int64{2}}}
	svc := NewService(r, "@daily")

	result, err := svc.RunNow()
	require.NoError(t, err)
	assert.Equal(t, 3, result.Checked)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestService_RunNow_Error(t *testing.T) {
	svc := NewService(&countingReconciler{err: errors.New("db down")}, "@daily")

	_, err := svc.RunNow()
	assert.EqualError(t, err, "db down")

	// 定时触发时只记录日志
	svc.reconcile()
}

func TestService_RunNow_StudentService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	students := service.NewStudentService(studentRepo, paymentRepo, &config.Config{})

	drifted := testutil.TestStudent(t, db, testutil.WithStudentStatus(model.StudentStatusPending))
	testutil.TestPayment(t, db, drifted.ID, 4000)

	result, err := NewService(students, "@daily").RunNow()
	require.NoError(t, err)
	assert.Equal(t, []int64{drifted.ID}, result.Updated)

	got, err := studentRepo.GetByID(drifted.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StudentStatusPaid, got.Status)
}
