// internal/service/customer/application/dto.go
package application

import (
	"time"

	"reserva/internal/pkg/pagination"
	"reserva/internal/service/customer/domain"
)

// CreateCustomerRequest 是创建客户的请求体。
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateCustomerRequest 是部分更新的请求体；nil 字段表示不修改。
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// CustomerDTO 是客户的响应形态。
type CustomerDTO struct {
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CustomerPage 是分页列表的响应体。
type CustomerPage struct {
	Customers  []*CustomerDTO  `json:"customers"`
	Pagination pagination.Page `json:"pagination"`
}

func ToCustomerDTO(c *domain.Customer) *CustomerDTO {
	return &CustomerDTO{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		CreatedAt:  c.CreatedAt,
	}
}

func toCustomerDTOs(customers []*domain.Customer) []*CustomerDTO {
	dtos := make([]*CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = ToCustomerDTO(c)
	}
	return dtos
}
