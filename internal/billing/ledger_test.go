package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/academy_server/internal/model"
)

func TestAggregate(t *testing.T) {
	students := []*model.Student{
		{Amount: 4000, Status: model.StudentStatusPaid},
		{Amount: 2000, Status: model.StudentStatusPending},
	}

	got := Aggregate(students)
	assert.Equal(t, Summary{TotalRevenue: 4000, TotalPending: 2000, PendingCount: 1, StudentCount: 2}, got)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Aggregate(nil))
}

func TestAggregate_TolerantOfMalformedRecords(t *testing.T) {
	students := []*model.Student{
		{Status: model.StudentStatusPaid},
		{Amount: -500, Status: model.StudentStatusPending},
		{Amount: 10000},
		nil,
	}

	got := Aggregate(students)
	assert.Equal(t, int64(0), got.TotalRevenue)
	assert.Equal(t, int64(10000), got.TotalPending)
	assert.Equal(t, 2, got.PendingCount)
	assert.Equal(t, 3, got.StudentCount)
}

func TestAggregate_Idempotent(t *testing.T) {
	students := []*model.Student{
		{Amount: 4000, Status: model.StudentStatusPaid},
		{Amount: 10000, Status: model.StudentStatusPaid},
		{Amount: 20000, Status: model.StudentStatusPending},
	}

	first := Aggregate(students)
	second := Aggregate(students)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(14000), first.TotalRevenue)
}

func TestReclassify(t *testing.T) {
	students := []*model.Student{
		{ID: 1, Amount: 4000, Status: model.StudentStatusPending},
		{ID: 2, Amount: 10000, Status: model.StudentStatusPaid},
	}
	payments := []*model.Payment{
		{StudentID: 1, Amount: 4000},
		{StudentID: 2, Amount: 5000},
	}

	out := Reclassify(students, payments)
	require.Len(t, out, 2)
	assert.Equal(t, model.StudentStatusPaid, out[0].Status)
	assert.Equal(t, model.StudentStatusPending, out[1].Status)

	// 入参不被修改
	assert.Equal(t, model.StudentStatusPending, students[0].Status)
	assert.Equal(t, model.StudentStatusPaid, students[1].Status)

	summary := Aggregate(out)
	assert.Equal(t, int64(4000), summary.TotalRevenue)
	assert.Equal(t, int64(10000), summary.TotalPending)
}
