// internal/service/reservation/domain/repository.go
package domain

import "context"

// Store 定义了预订账本的持久化接口，由基础设施层实现。
type Store interface {
	// WithinTx 获取一个事务作用域执行 fn：fn 返回 nil 则提交，
	// 返回错误或中途 panic 则整体回滚，不允许出现部分效果。
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// FindByID 读取单个预订单，预加载明细与客户。
	FindByID(ctx context.Context, id string) (*Reservation, error)
	// List 按创建时间倒序分页读取，预加载明细。
	List(ctx context.Context, offset, limit int) ([]*Reservation, error)
	Count(ctx context.Context) (int64, error)
}

// Tx 是单个数据库事务内可用的操作集合。
// 实现必须保证 ProductsForUpdate 返回的行在事务结束前持有行级锁，
// 使"检查库存→扣减库存"不会与并发事务交错。
type Tx interface {
	CustomerExists(id string) (bool, error)

	// ProductsForUpdate 加锁读取一组商品；缺失的 id 不报错，由调用方比对。
	ProductsForUpdate(ids []string) ([]*ProductRef, error)
	// AdjustStock 给商品库存加 delta（负数为扣减），
	// 由守护条件保证结果不为负；未命中任何行时返回可重试的 ConflictError。
	AdjustStock(productID string, delta int) error

	InsertReservation(r *Reservation) error
	// ReservationForUpdate 加锁读取预订单及其明细，不存在时返回 (nil, nil)。
	ReservationForUpdate(id string) (*Reservation, error)
	// ReplaceLineItems 删除旧明细并插入新明细（整组替换，不做合并）。
	ReplaceLineItems(reservationID string, items []LineItem) error
	UpdateReservation(id string, fields map[string]interface{}) error
	// DeleteReservation 删除预订单本体，明细由 ReplaceLineItems(id, nil) 清理。
	DeleteReservation(id string) error
}
