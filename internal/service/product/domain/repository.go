// internal/service/product/domain/repository.go
package domain

import "context"

// Store 是商品目录的持久化端口。
// 查找类方法在记录不存在时返回 (nil, nil)。
type Store interface {
	Insert(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	NameExists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)

	FilterByName(ctx context.Context, name string, limit int) ([]*Product, error)
	FilterByNamePrefix(ctx context.Context, prefix string, limit int) ([]*Product, error)
	FilterByCategory(ctx context.Context, category string, limit int) ([]*Product, error)
}
