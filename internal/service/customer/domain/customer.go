// internal/service/customer/domain/customer.go
package domain

import (
	"context"
	"time"
)

// Customer 是可以持有预订单的客户，Email 全局唯一。
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// Store 是客户档案的持久化端口。
// 查找类方法在记录不存在时返回 (nil, nil)。
type Store interface {
	Insert(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*Customer, error)
	Count(ctx context.Context) (int64, error)
	// Search 在姓名、邮箱、电话上做大小写不敏感的子串匹配。
	Search(ctx context.Context, term string) ([]*Customer, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}
