// internal/service/customer/infrastructure/gorm_store.go
package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/service/customer/domain"
)

// CustomerModel 是 customers 表的完整映射。
// 预订服务侧只读取 id/name/email 列。
type CustomerModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:255"`
	Email     string    `gorm:"size:255;uniqueIndex"`
	Phone     string    `gorm:"size:64"`
	Address   string    `gorm:"size:512"`
	CreatedAt time.Time `gorm:"index"`
}

func (CustomerModel) TableName() string { return "customers" }

func toDomainCustomer(m *CustomerModel) *domain.Customer {
	return &domain.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
	}
}

// GormStore 是 domain.Store 的 GORM/MySQL 实现。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, c *domain.Customer) error {
	model := &CustomerModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
	err := s.db.WithContext(ctx).Create(model).Error
	if isDuplicateKey(err) {
		return apperrors.Conflictf("Email already exists in the database")
	}
	return err
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	var model CustomerModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainCustomer(&model), nil
}

func (s *GormStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&CustomerModel{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) List(ctx context.Context, offset, limit int) ([]*domain.Customer, error) {
	var models []*CustomerModel
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainCustomers(models), nil
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&CustomerModel{}).Count(&count).Error
	return count, err
}

func (s *GormStore) Search(ctx context.Context, term string) ([]*domain.Customer, error) {
	pattern := "%" + escapeLike(term) + "%"
	var models []*CustomerModel
	err := s.db.WithContext(ctx).
		Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", pattern, pattern, pattern).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainCustomers(models), nil
}

func (s *GormStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	err := s.db.WithContext(ctx).Model(&CustomerModel{}).
		Where("id = ?", id).
		Updates(fields).Error
	if isDuplicateKey(err) {
		return apperrors.Conflictf("Email already exists in the database")
	}
	return err
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&CustomerModel{}).Error
}

func toDomainCustomers(models []*CustomerModel) []*domain.Customer {
	customers := make([]*domain.Customer, len(models))
	for i, m := range models {
		customers[i] = toDomainCustomer(m)
	}
	return customers
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
