// internal/service/reservation/infrastructure/models.go
package infrastructure

import (
	"time"

	"reserva/internal/service/reservation/domain"
)

// ReservationModel 对应数据库中的 reservations 表。
type ReservationModel struct {
	ID         string  `gorm:"primaryKey;size:36"`
	CustomerID string  `gorm:"size:36;index"`
	Date       string  `gorm:"size:64"`
	Status     string  `gorm:"size:16"`
	Total      float64 `gorm:"type:decimal(12,2)"`
	CreatedAt  time.Time

	Items    []ReservationItemModel `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	Customer *customerRow           `gorm:"foreignKey:CustomerID"`
}

func (ReservationModel) TableName() string {
	return "reservations"
}

// ReservationItemModel 对应 reservation_items 表，随预订单级联删除。
type ReservationItemModel struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"`
	ReservationID string  `gorm:"size:36;index"`
	ProductID     string  `gorm:"size:36;index"`
	ProductName   string  `gorm:"size:255"`
	Quantity      int
	UnitPrice     float64 `gorm:"type:decimal(12,2)"`
	TotalPrice    float64 `gorm:"type:decimal(12,2)"`
}

func (ReservationItemModel) TableName() string {
	return "reservation_items"
}

// productRow 是预订上下文对 products 表的精简映射，
// 只带库存校验和价格快照需要的列；完整模型归商品上下文所有。
type productRow struct {
	ID              string  `gorm:"primaryKey;size:36"`
	ProductName     string  `gorm:"size:255"`
	QuantityInStock int
	Price           float64 `gorm:"type:decimal(12,2)"`
}

func (productRow) TableName() string {
	return "products"
}

// customerRow 是预订上下文对 customers 表的精简映射。
type customerRow struct {
	ID    string `gorm:"primaryKey;size:36"`
	Name  string `gorm:"size:255"`
	Email string `gorm:"size:255"`
}

func (customerRow) TableName() string {
	return "customers"
}

func toDomainReservation(m *ReservationModel) *domain.Reservation {
	r := &domain.Reservation{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Date:       m.Date,
		Status:     domain.Status(m.Status),
		Total:      m.Total,
		CreatedAt:  m.CreatedAt,
		Items:      make([]domain.LineItem, len(m.Items)),
	}
	for i, item := range m.Items {
		r.Items[i] = domain.LineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}
	if m.Customer != nil {
		r.Customer = &domain.CustomerRef{
			ID:    m.Customer.ID,
			Name:  m.Customer.Name,
			Email: m.Customer.Email,
		}
	}
	return r
}

func toReservationModel(r *domain.Reservation) *ReservationModel {
	m := &ReservationModel{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Date:       r.Date,
		Status:     string(r.Status),
		Total:      r.Total,
		CreatedAt:  r.CreatedAt,
		Items:      make([]ReservationItemModel, len(r.Items)),
	}
	for i, item := range r.Items {
		m.Items[i] = toItemModel(r.ID, item)
	}
	return m
}

func toItemModel(reservationID string, item domain.LineItem) ReservationItemModel {
	return ReservationItemModel{
		ReservationID: reservationID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		Quantity:      item.Quantity,
		UnitPrice:     item.UnitPrice,
		TotalPrice:    item.TotalPrice,
	}
}
