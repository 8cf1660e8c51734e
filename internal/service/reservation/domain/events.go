// internal/service/reservation/domain/events.go
package domain

import (
	"context"
	"time"
)

const (
	EventReservationCreated = "reservation.created"
	EventReservationUpdated = "reservation.updated"
	EventReservationDeleted = "reservation.deleted"
)

// Event 是预订单生命周期事件，在事务提交后对外发布。
type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservationId"`
	CustomerID    string    `json:"customerId"`
	Status        string    `json:"status,omitempty"`
	Total         float64   `json:"total"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// EventPublisher 把事件投递到下游（Kafka、仪表盘推送等）。
// 发布是尽力而为的：失败只记日志，绝不影响已提交的事务。
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, event *Event) error
}
