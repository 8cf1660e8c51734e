// internal/service/reservation/infrastructure/gorm_store.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/service/reservation/domain"
)

// GormStore 是 domain.Store 的 GORM/MySQL 实现。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// WithinTx 在一个数据库事务里执行 fn；fn 返回错误时 GORM 保证回滚。
// 事务的超时由 ctx 的 deadline 约束。
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx domain.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var model ReservationModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainReservation(&model), nil
}

func (s *GormStore) List(ctx context.Context, offset, limit int) ([]*domain.Reservation, error) {
	var models []*ReservationModel
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	reservations := make([]*domain.Reservation, len(models))
	for i, m := range models {
		reservations[i] = toDomainReservation(m)
	}
	return reservations, nil
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ReservationModel{}).Count(&count).Error
	return count, err
}

// gormTx 把单个 *gorm.DB 事务句柄适配成 domain.Tx。
type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) CustomerExists(id string) (bool, error) {
	var count int64
	if err := t.db.Model(&customerRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProductsForUpdate 用 SELECT ... FOR UPDATE 锁定商品行，
// 锁持续到事务结束，保证检查-扣减序列不和并发事务交错。
func (t *gormTx) ProductsForUpdate(ids []string) ([]*domain.ProductRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*productRow
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	refs := make([]*domain.ProductRef, len(rows))
	for i, row := range rows {
		refs[i] = &domain.ProductRef{
			ID:              row.ID,
			Name:            row.ProductName,
			QuantityInStock: row.QuantityInStock,
			Price:           row.Price,
		}
	}
	return refs, nil
}

// AdjustStock 做守护式更新：库存结果为负时不命中任何行，
// 事务随之回滚并向调用方报告可重试的冲突。
func (t *gormTx) AdjustStock(productID string, delta int) error {
	result := t.db.Model(&productRow{}).
		Where("id = ? AND quantity_in_stock + ? >= 0", productID, delta).
		UpdateColumn("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &apperrors.ConflictError{
			Message:   "Stock level changed concurrently, please retry",
			Retryable: true,
		}
	}
	return nil
}

func (t *gormTx) InsertReservation(r *domain.Reservation) error {
	// Items 作为关联一起写入，同一事务内插入主记录和明细
	return t.db.Create(toReservationModel(r)).Error
}

func (t *gormTx) ReservationForUpdate(id string) (*domain.Reservation, error) {
	var model ReservationModel
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainReservation(&model), nil
}

func (t *gormTx) ReplaceLineItems(reservationID string, items []domain.LineItem) error {
	if err := t.db.Where("reservation_id = ?", reservationID).
		Delete(&ReservationItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	models := make([]ReservationItemModel, len(items))
	for i, item := range items {
		models[i] = toItemModel(reservationID, item)
	}
	return t.db.Create(&models).Error
}

func (t *gormTx) UpdateReservation(id string, fields map[string]interface{}) error {
	return t.db.Model(&ReservationModel{}).Where("id = ?", id).Updates(fields).Error
}

func (t *gormTx) DeleteReservation(id string) error {
	return t.db.Where("id = ?", id).Delete(&ReservationModel{}).Error
}
