// internal/service/reservation/infrastructure/adapter/push_hub_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"reserva/internal/push"
	"reserva/internal/service/reservation/domain"
)

// PushHubAdapter 把预订事件广播给所有已连接的仪表盘 WebSocket 客户端。
type PushHubAdapter struct {
	hub *push.Hub
}

func NewPushHubAdapter(hub *push.Hub) *PushHubAdapter {
	return &PushHubAdapter{hub: hub}
}

func (a *PushHubAdapter) PublishReservationEvent(_ context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation event: %w", err)
	}
	a.hub.Broadcast(payload)
	return nil
}
