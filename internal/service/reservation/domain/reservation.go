// internal/service/reservation/domain/reservation.go
package domain

import "time"

// Reservation 是预订单聚合的根实体，独占其下的全部明细行。
type Reservation struct {
	ID         string
	CustomerID string
	Date       string
	Status     Status
	Total      float64
	Items      []LineItem
	CreatedAt  time.Time

	// Customer 仅在单条查询时预加载，列表接口不带
	Customer *CustomerRef
}

// LineItem 是预订单的一行商品明细。
// UnitPrice 是下单时刻约定的快照价，不会跟随商品当前价变动。
type LineItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// CustomerRef 是预订上下文看到的客户视图，账本从不修改客户。
type CustomerRef struct {
	ID    string
	Name  string
	Email string
}

// ProductRef 是预订上下文看到的商品视图，只包含库存校验需要的字段。
type ProductRef struct {
	ID              string
	Name            string
	QuantityInStock int
	Price           float64
}
