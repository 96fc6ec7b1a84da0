package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelAcademyEvents = "academy_events"
)

// 事件类型
const (
	EventNewsPublished  = "news_published"
	EventLedgerChanged  = "ledger_changed"
	EventExportProgress = "export_progress"
)

// Event 推送给管理端的实时事件
type Event struct {
	Type      string      `json:"type"`
	AdminID   int64       `json:"admin_id,omitempty"` // 非 0 时只推送给该管理员
	StudentID int64       `json:"student_id,omitempty"`
	NewsID    int64       `json:"news_id,omitempty"`
	JobID     int64       `json:"job_id,omitempty"`
	Status    string      `json:"status,omitempty"`
	Step      string      `json:"step,omitempty"`
	Progress  int         `json:"progress,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// 导出任务阶段
const (
	StepLoading   = "loading"
	StepBuilding  = "building"
	StepUploading = "uploading"
	StepDone      = "done"
)

var StepProgress = map[string]int{
	StepLoading:   20,
	StepBuilding:  50,
	StepUploading: 80,
	StepDone:      100,
}

var StepMessages = map[string]string{
	StepLoading:   "正在读取学员与缴费数据",
	StepBuilding:  "正在生成工作簿",
	StepUploading: "正在上传文件",
	StepDone:      "导出完成",
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布事件
func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, ChannelAcademyEvents, data).Err()
}

// PublishProgress 发布导出进度，按阶段自动填充进度和消息
func (p *Publisher) PublishProgress(ctx context.Context, event *Event) error {
	event.Type = EventExportProgress

	if event.Progress == 0 && event.Step != "" {
		if progress, ok := StepProgress[event.Step]; ok {
			event.Progress = progress
		}
	}
	if event.Message == "" && event.Step != "" {
		if message, ok := StepMessages[event.Step]; ok {
			event.Message = message
		}
	}

	return p.Publish(ctx, event)
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅事件直到 ctx 结束，订阅确认后调用 ready（可为 nil）
func (s *Subscriber) Subscribe(ctx context.Context, ready func(), handler func(*Event)) error {
	ps := s.client.Subscribe(ctx, ChannelAcademyEvents)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	if ready != nil {
		ready()
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
