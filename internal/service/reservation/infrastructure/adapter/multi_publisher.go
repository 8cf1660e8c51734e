// internal/service/reservation/infrastructure/adapter/multi_publisher.go
package adapter

import (
	"context"

	"reserva/internal/pkg/logger"
	"reserva/internal/service/reservation/domain"
)

// MultiPublisher 把同一事件扇出到多个发布器。
// 单个发布器失败只记日志，不影响其余发布器，也不向上层返回错误。
type MultiPublisher struct {
	publishers []domain.EventPublisher
}

func NewMultiPublisher(publishers ...domain.EventPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) PublishReservationEvent(ctx context.Context, event *domain.Event) error {
	for _, p := range m.publishers {
		if err := p.PublishReservationEvent(ctx, event); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("event_type", event.Type).
				Msg("event publisher failed")
		}
	}
	return nil
}
