package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client
}

func TestStepProgress(t *testing.T) {
	steps := []string{StepLoading, StepBuilding, StepUploading, StepDone}

	prev := 0
	for _, step := range steps {
		progress, ok := StepProgress[step]
		require.True(t, ok, "step %s should have progress", step)
		assert.Greater(t, progress, prev)
		assert.NotEmpty(t, StepMessages[step])
		prev = progress
	}
	assert.Equal(t, 100, StepProgress[StepDone])
}

func TestEvent_JSON(t *testing.T) {
	data, err := json.Marshal(&Event{Type: EventNewsPublished, NewsID: 9})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "news_published", raw["type"])
	assert.Equal(t, float64(9), raw["news_id"])
	assert.NotContains(t, raw, "job_id")
	assert.NotContains(t, raw, "student_id")
}

func receive(t *testing.T, client *redis.Client, publish func()) *Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ready := make(chan struct{})
	got := make(chan *Event, 1)
	go NewSubscriber(client).Subscribe(ctx, func() { close(ready) }, func(e *Event) {
		select {
		case got <- e:
		default:
		}
	})

	select {
	case <-ready:
	case <-ctx.Done():
		t.Fatal("subscription not ready")
	}

	publish()

	select {
	case e := <-got:
		return e
	case <-ctx.Done():
		t.Fatal("no event received")
		return nil
	}
}

func TestPublisher_Publish(t *testing.T) {
	client := setupTestRedis(t)
	pub := NewPublisher(client)

	event := receive(t, client, func() {
		require.NoError(t, pub.Publish(context.Background(), &Event{Type: EventLedgerChanged, StudentID: 3, Status: "Paid"}))
	})

	assert.Equal(t, EventLedgerChanged, event.Type)
	assert.Equal(t, int64(3), event.StudentID)
	assert.Equal(t, "Paid", event.Status)
}

func TestPublisher_PublishProgress(t *testing.T) {
	client := setupTestRedis(t)
	pub := NewPublisher(client)

	event := receive(t, client, func() {
		require.NoError(t, pub.PublishProgress(context.Background(), &Event{JobID: 5, Status: "processing", Step: StepBuilding}))
	})

	assert.Equal(t, EventExportProgress, event.Type)
	assert.Equal(t, int64(5), event.JobID)
	assert.Equal(t, 50, event.Progress)
	assert.Equal(t, StepMessages[StepBuilding], event.Message)
}

func TestSubscriber_StopsOnCancel(t *testing.T) {
	client := setupTestRedis(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewSubscriber(client).Subscribe(ctx, cancel, func(*Event) {})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
