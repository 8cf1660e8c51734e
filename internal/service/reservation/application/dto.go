// internal/service/reservation/application/dto.go
package application

import (
	"time"

	"reserva/internal/pkg/pagination"
	"reserva/internal/service/reservation/domain"
)

// LineItemRequest 是请求里的一行商品明细。
// UnitPrice 是报价时约定的单价，为 0 时落库前会回退到商品当前价。
type LineItemRequest struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// CreateReservationRequest 是创建预订单的请求体。
// Total 字段仅为前端回显兼容保留，真实合计由明细推导。
type CreateReservationRequest struct {
	CustomerID   string            `json:"customerId"`
	CustomerName string            `json:"customerName"`
	Date         string            `json:"date"`
	Status       string            `json:"status"`
	Total        float64           `json:"total"`
	Products     []LineItemRequest `json:"products"`
}

// UpdateReservationRequest 是部分更新的请求体；nil 字段表示不修改。
// Products 非空时触发整组明细替换。
type UpdateReservationRequest struct {
	CustomerID *string           `json:"customerId"`
	Date       *string           `json:"date"`
	Status     *string           `json:"status"`
	Total      *float64          `json:"total"`
	Products   []LineItemRequest `json:"products"`
}

// LineItemDTO 是明细的响应形态。
type LineItemDTO struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// CustomerDTO 是预订单响应里嵌入的客户视图。
type CustomerDTO struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// ReservationDTO 是预订单的响应形态。
type ReservationDTO struct {
	ReservationID string        `json:"reservationId"`
	CustomerID    string        `json:"customerId"`
	Date          string        `json:"date"`
	Status        string        `json:"status"`
	Total         float64       `json:"total"`
	CreatedAt     time.Time     `json:"createdAt"`
	Products      []LineItemDTO `json:"products"`
	Customer      *CustomerDTO  `json:"customer,omitempty"`
}

// ReservationPage 是分页列表的响应体。
type ReservationPage struct {
	Reservations []*ReservationDTO `json:"reservations"`
	Pagination   pagination.Page   `json:"pagination"`
}

// ToReservationDTO 把领域实体映射为响应 DTO。
func ToReservationDTO(r *domain.Reservation) *ReservationDTO {
	dto := &ReservationDTO{
		ReservationID: r.ID,
		CustomerID:    r.CustomerID,
		Date:          r.Date,
		Status:        string(r.Status),
		Total:         r.Total,
		CreatedAt:     r.CreatedAt,
		Products:      make([]LineItemDTO, len(r.Items)),
	}
	for i, item := range r.Items {
		dto.Products[i] = LineItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}
	if r.Customer != nil {
		dto.Customer = &CustomerDTO{
			CustomerID: r.Customer.ID,
			Name:       r.Customer.Name,
			Email:      r.Customer.Email,
		}
	}
	return dto
}
