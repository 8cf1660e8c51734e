// internal/service/product/domain/product.go
package domain

import "time"

// Product 是商品目录里的一条商品，QuantityInStock 由预订账本增减。
type Product struct {
	ID              string
	ProductName     string
	Description     string
	Category        string
	Price           float64
	QuantityInStock int
	IsActive        bool
	ImageURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FilterKind 标识 /product/filter 支持的筛选方式。
type FilterKind string

const (
	// FilterNameInserted 检查商品名是否已被占用（大小写不敏感的精确匹配）。
	FilterNameInserted FilterKind = "ipi"
	// FilterNamePrefix 按名称前缀筛选（大小写不敏感）。
	FilterNamePrefix FilterKind = "psw"
	// FilterCategory 按分类精确筛选。
	FilterCategory FilterKind = "pwc"
)

func (k FilterKind) IsValid() bool {
	switch k {
	case FilterNameInserted, FilterNamePrefix, FilterCategory:
		return true
	}
	return false
}
