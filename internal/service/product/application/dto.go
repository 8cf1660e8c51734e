// internal/service/product/application/dto.go
package application

import (
	"time"

	"reserva/internal/pkg/pagination"
	"reserva/internal/service/product/domain"
)

// CreateProductRequest 是创建商品的请求体。
type CreateProductRequest struct {
	ProductName     string  `json:"productName"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	QuantityInStock int     `json:"quantityInStock"`
}

// UpdateProductRequest 是部分更新的请求体；nil 字段表示不修改。
type UpdateProductRequest struct {
	ProductName     *string  `json:"productName"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	Price           *float64 `json:"price"`
	QuantityInStock *int     `json:"quantityInStock"`
	IsActive        *bool    `json:"isActive"`
	ImageURL        *string  `json:"imageUrl"`
}

// ProductDTO 是商品的响应形态。
type ProductDTO struct {
	ProductID       string    `json:"productId"`
	ProductName     string    `json:"productName"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Price           float64   `json:"price"`
	QuantityInStock int       `json:"quantityInStock"`
	IsActive        bool      `json:"isActive"`
	ImageURL        string    `json:"imageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProductPage 是分页列表的响应体。
type ProductPage struct {
	Products   []*ProductDTO   `json:"products"`
	Pagination pagination.Page `json:"pagination"`
}

// NameCheck 是名称占用检查（filterType=ipi）的响应体。
type NameCheck struct {
	Exists bool `json:"exists"`
}

func ToProductDTO(p *domain.Product) *ProductDTO {
	return &ProductDTO{
		ProductID:       p.ID,
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

func toProductDTOs(products []*domain.Product) []*ProductDTO {
	dtos := make([]*ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = ToProductDTO(p)
	}
	return dtos
}
