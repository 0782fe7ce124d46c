package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	log "github.com/sirupsen/logrus"
)

// Topic 所有排序事件发布到同一个主题
const Topic = "task-order.events"

// Bus 进程内事件总线（对外导出）
// 没有订阅者时发布的事件会被丢弃
type Bus struct {
	pubSub *gochannel.GoChannel
}

// NewBus 创建事件总线
// bufferSize: 每个订阅者的输出缓冲区大小
func NewBus(bufferSize int64, logger *log.Logger) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: bufferSize},
			NewLogrusAdapter(logger),
		),
	}
}

// Publish 发布事件
func (b *Bus) Publish(e *OrderingEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	msg := message.NewMessage(e.ID, payload)
	msg.Metadata.Set("type", string(e.Type))
	msg.Metadata.Set("request_id", e.RequestID)
	if err := b.pubSub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}
	return nil
}

// Subscribe 订阅事件，ctx 取消后返回的通道关闭
// 无法解码的消息会被确认并丢弃
func (b *Bus) Subscribe(ctx context.Context) (<-chan *OrderingEvent, error) {
	messages, err := b.pubSub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("订阅事件失败: %w", err)
	}

	out := make(chan *OrderingEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			var e OrderingEvent
			if err := json.Unmarshal(msg.Payload, &e); err != nil {
				log.WithField("message_id", msg.UUID).Warnf("丢弃无法解码的事件: %v", err)
				msg.Ack()
				continue
			}
			select {
			case out <- &e:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

// Close 关闭事件总线
func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// logrusAdapter 将 watermill 日志输出到 logrus
type logrusAdapter struct {
	entry *log.Entry
}

// NewLogrusAdapter 创建 watermill 日志适配器，logger 为空时使用全局 logger
func NewLogrusAdapter(logger *log.Logger) watermill.LoggerAdapter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &logrusAdapter{entry: log.NewEntry(logger).WithField("component", "watermill")}
}

func (a *logrusAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).WithError(err).Error(msg)
}

func (a *logrusAdapter) Info(msg string, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).Info(msg)
}

func (a *logrusAdapter) Debug(msg string, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).Debug(msg)
}

func (a *logrusAdapter) Trace(msg string, fields watermill.LogFields) {
	a.entry.WithFields(log.Fields(fields)).Trace(msg)
}

func (a *logrusAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &logrusAdapter{entry: a.entry.WithFields(log.Fields(fields))}
}
