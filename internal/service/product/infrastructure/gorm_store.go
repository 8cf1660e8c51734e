// internal/service/product/infrastructure/gorm_store.go
package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/service/product/domain"
)

// ProductModel 是 products 表的完整映射。
// 预订服务侧只读写其中的 id/product_name/quantity_in_stock/price 列。
type ProductModel struct {
	ID              string    `gorm:"primaryKey;size:36"`
	ProductName     string    `gorm:"size:255;uniqueIndex"`
	Description     string    `gorm:"type:text"`
	Category        string    `gorm:"size:128;index"`
	Price           float64   `gorm:"type:decimal(12,2)"`
	QuantityInStock int       `gorm:"not null"`
	IsActive        bool      `gorm:"not null;default:true"`
	ImageURL        string    `gorm:"size:512"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

func (ProductModel) TableName() string { return "products" }

func toDomainProduct(m *ProductModel) *domain.Product {
	return &domain.Product{
		ID:              m.ID,
		ProductName:     m.ProductName,
		Description:     m.Description,
		Category:        m.Category,
		Price:           m.Price,
		QuantityInStock: m.QuantityInStock,
		IsActive:        m.IsActive,
		ImageURL:        m.ImageURL,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toProductModel(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:              p.ID,
		ProductName:     p.ProductName,
		Description:     p.Description,
		Category:        p.Category,
		Price:           p.Price,
		QuantityInStock: p.QuantityInStock,
		IsActive:        p.IsActive,
		ImageURL:        p.ImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// GormStore 是 domain.Store 的 GORM/MySQL 实现。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert 写入商品。并发创建同名商品时唯一索引会报 1062，
// 转成和预检查一致的冲突错误。
func (s *GormStore) Insert(ctx context.Context, p *domain.Product) error {
	err := s.db.WithContext(ctx).Create(toProductModel(p)).Error
	if isDuplicateKey(err) {
		return apperrors.Conflictf("Product name already exists in the database")
	}
	return err
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainProduct(&model), nil
}

func (s *GormStore) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ProductModel{}).
		Where("product_name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	var models []*ProductModel
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainProducts(models), nil
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ProductModel{}).Count(&count).Error
	return count, err
}

func (s *GormStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	err := s.db.WithContext(ctx).Model(&ProductModel{}).
		Where("id = ?", id).
		Updates(fields).Error
	if isDuplicateKey(err) {
		return apperrors.Conflictf("Product name already exists in the database")
	}
	return err
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductModel{}).Error
}

func (s *GormStore) DeleteAll(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&ProductModel{})
	return result.RowsAffected, result.Error
}

// FilterByName 做大小写不敏感的精确匹配；MySQL 默认 collation 即不区分大小写。
func (s *GormStore) FilterByName(ctx context.Context, name string, limit int) ([]*domain.Product, error) {
	var models []*ProductModel
	err := s.db.WithContext(ctx).
		Where("product_name = ?", name).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainProducts(models), nil
}

func (s *GormStore) FilterByNamePrefix(ctx context.Context, prefix string, limit int) ([]*domain.Product, error) {
	var models []*ProductModel
	err := s.db.WithContext(ctx).
		Where("product_name LIKE ?", escapeLike(prefix)+"%").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainProducts(models), nil
}

func (s *GormStore) FilterByCategory(ctx context.Context, category string, limit int) ([]*domain.Product, error) {
	var models []*ProductModel
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainProducts(models), nil
}

func toDomainProducts(models []*ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = toDomainProduct(m)
	}
	return products
}

// isDuplicateKey 识别 MySQL 唯一索引冲突（error 1062）。
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// escapeLike 转义用户输入里的 LIKE 通配符。
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
