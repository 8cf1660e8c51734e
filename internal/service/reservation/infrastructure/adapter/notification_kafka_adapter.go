// internal/service/reservation/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"reserva/internal/pkg/mq"
	"reserva/internal/service/reservation/domain"
)

// NotificationKafkaAdapter 把预订事件投递到 Kafka，供通知等下游消费。
type NotificationKafkaAdapter struct {
	writer *kafka.Writer
}

func NewNotificationKafkaAdapter(writer *kafka.Writer) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{writer: writer}
}

// PublishReservationEvent 以预订单 ID 为分区键发送事件，
// mq.ProduceMessage 会把 trace 上下文注入消息头。
func (a *NotificationKafkaAdapter) PublishReservationEvent(ctx context.Context, event *domain.Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation event: %w", err)
	}
	return mq.ProduceMessage(ctx, a.writer, []byte(event.ReservationID), eventBytes)
}

// Close 关闭底层的 Kafka writer。
func (a *NotificationKafkaAdapter) Close() error {
	return a.writer.Close()
}
