// internal/service/product/application/service.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/pkg/logger"
	"reserva/internal/pkg/pagination"
	"reserva/internal/service/product/domain"
)

// filterLimit 是筛选接口最多返回的商品数。
const filterLimit = 5

// Service 承载商品目录的用例。
type Service struct {
	store  domain.Store
	tracer trace.Tracer
}

func NewService(store domain.Store, tracer trace.Tracer) *Service {
	return &Service{store: store, tracer: tracer}
}

// Create 新建商品。商品名全局唯一：先做一次预检查给出友好错误，
// 数据库层的唯一索引兜底并发下的竞态。
func (s *Service) Create(ctx context.Context, req *CreateProductRequest) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Create")
	defer span.End()

	if req.ProductName == "" {
		return nil, apperrors.Validationf("Product name must not be empty")
	}
	if req.Price < 0 {
		return nil, apperrors.Validationf("Product price must not be negative")
	}
	if req.QuantityInStock < 0 {
		return nil, apperrors.Validationf("Product stock must not be negative")
	}

	exists, err := s.store.NameExists(ctx, req.ProductName)
	if err != nil {
		return nil, s.fail(span, "Error while creating product", err)
	}
	if exists {
		return nil, apperrors.Conflictf("Product name already exists in the database")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:              uuid.NewString(),
		ProductName:     req.ProductName,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		QuantityInStock: req.QuantityInStock,
		IsActive:        true,
		ImageURL:        "",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Insert(ctx, product); err != nil {
		return nil, s.fail(span, "Error while creating product", err)
	}

	span.SetAttributes(attribute.String("product.id", product.ID))
	logger.Ctx(ctx).Info().
		Str("product_id", product.ID).
		Str("product_name", product.ProductName).
		Msg("product created")
	return product, nil
}

// FindAll 按创建时间倒序分页列出商品。
func (s *Service) FindAll(ctx context.Context, pageNumber int) (*ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FindAll")
	defer span.End()

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, s.fail(span, "Error while fetching products", err)
	}
	offset, page, err := pagination.Resolve(pageNumber, count)
	if err != nil {
		return nil, err
	}
	products, err := s.store.List(ctx, offset, pagination.DefaultPageSize)
	if err != nil {
		return nil, s.fail(span, "Error while fetching products", err)
	}
	return &ProductPage{Products: toProductDTOs(products), Pagination: page}, nil
}

func (s *Service) FindOne(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FindOne")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validationf("Invalid product ID format")
	}
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while fetching product", err)
	}
	if product == nil {
		return nil, apperrors.NotFoundf("Product not found")
	}
	return product, nil
}

// FilterBy 按给定方式筛选商品，最多返回 filterLimit 条。
// kind 为 FilterNameInserted 时只回答名称是否已被占用。
func (s *Service) FilterBy(ctx context.Context, kind domain.FilterKind, value string) (interface{}, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.FilterBy")
	defer span.End()
	span.SetAttributes(attribute.String("filter.kind", string(kind)))

	var (
		products []*domain.Product
		err      error
	)
	switch kind {
	case domain.FilterNameInserted:
		products, err = s.store.FilterByName(ctx, value, filterLimit)
		if err != nil {
			return nil, s.fail(span, "Error while filtering products", err)
		}
		return &NameCheck{Exists: len(products) > 0}, nil
	case domain.FilterNamePrefix:
		products, err = s.store.FilterByNamePrefix(ctx, value, filterLimit)
	case domain.FilterCategory:
		products, err = s.store.FilterByCategory(ctx, value, filterLimit)
	default:
		return nil, apperrors.Validationf("Invalid filter option")
	}
	if err != nil {
		return nil, s.fail(span, "Error while filtering products", err)
	}
	if len(products) == 0 {
		return nil, apperrors.NotFoundf("No products found matching your criteria")
	}
	return toProductDTOs(products), nil
}

// Update 对商品做部分更新。改名时重新检查唯一性。
func (s *Service) Update(ctx context.Context, id string, req *UpdateProductRequest) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Update")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validationf("Invalid product ID format")
	}
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while updating product", err)
	}
	if existing == nil {
		return nil, apperrors.NotFoundf("Product not found")
	}

	fields := map[string]interface{}{}
	if req.ProductName != nil && *req.ProductName != existing.ProductName {
		taken, err := s.store.NameExists(ctx, *req.ProductName)
		if err != nil {
			return nil, s.fail(span, "Error while updating product", err)
		}
		if taken {
			return nil, apperrors.Conflictf("Product name already exists in the database")
		}
		fields["product_name"] = *req.ProductName
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperrors.Validationf("Product price must not be negative")
		}
		fields["price"] = *req.Price
	}
	if req.QuantityInStock != nil {
		if *req.QuantityInStock < 0 {
			return nil, apperrors.Validationf("Product stock must not be negative")
		}
		fields["quantity_in_stock"] = *req.QuantityInStock
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		if err := s.store.Update(ctx, id, fields); err != nil {
			return nil, s.fail(span, "Error while updating product", err)
		}
	}

	updated, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while updating product", err)
	}
	logger.Ctx(ctx).Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.Remove")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validationf("Invalid product ID format")
	}
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.fail(span, "Error while deleting product", err)
	}
	if existing == nil {
		return apperrors.NotFoundf("Product not found")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(span, "Error while deleting product", err)
	}
	logger.Ctx(ctx).Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// RemoveAll 清空商品目录，返回删除的行数。
func (s *Service) RemoveAll(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.RemoveAll")
	defer span.End()

	deleted, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, s.fail(span, "Failed to delete products", err)
	}
	logger.Ctx(ctx).Info().Int64("deleted", deleted).Msg("all products deleted")
	return deleted, nil
}

func (s *Service) fail(span trace.Span, message string, err error) error {
	span.RecordError(err)
	if apperrors.IsDomain(err) {
		return err
	}
	return apperrors.Internal(message, err)
}
