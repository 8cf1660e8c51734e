// internal/service/customer/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/pkg/logger"
	"reserva/internal/pkg/pagination"
	"reserva/internal/service/customer/domain"
)

// Service 承载客户档案的用例。
type Service struct {
	store  domain.Store
	tracer trace.Tracer
}

func NewService(store domain.Store, tracer trace.Tracer) *Service {
	return &Service{store: store, tracer: tracer}
}

// Create 新建客户。邮箱全局唯一：先做预检查，唯一索引兜底并发竞态。
func (s *Service) Create(ctx context.Context, req *CreateCustomerRequest) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "crm.Create")
	defer span.End()

	if req.Name == "" {
		return nil, apperrors.Validationf("Customer name must not be empty")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, apperrors.Validationf("Invalid email address")
	}

	exists, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, s.fail(span, "Error while creating customer", err)
	}
	if exists {
		return nil, apperrors.Conflictf("Email already exists in the database")
	}

	customer := &domain.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, customer); err != nil {
		return nil, s.fail(span, "Error while creating customer", err)
	}

	span.SetAttributes(attribute.String("customer.id", customer.ID))
	logger.Ctx(ctx).Info().Str("customer_id", customer.ID).Msg("customer created")
	return customer, nil
}

// FindAll 按创建时间倒序分页列出客户。
func (s *Service) FindAll(ctx context.Context, pageNumber int) (*CustomerPage, error) {
	ctx, span := s.tracer.Start(ctx, "crm.FindAll")
	defer span.End()

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, s.fail(span, "Error while fetching customers", err)
	}
	offset, page, err := pagination.Resolve(pageNumber, count)
	if err != nil {
		return nil, err
	}
	customers, err := s.store.List(ctx, offset, pagination.DefaultPageSize)
	if err != nil {
		return nil, s.fail(span, "Error while fetching customers", err)
	}
	return &CustomerPage{Customers: toCustomerDTOs(customers), Pagination: page}, nil
}

func (s *Service) FindOne(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "crm.FindOne")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validationf("Invalid customer ID format")
	}
	customer, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while fetching customer", err)
	}
	if customer == nil {
		return nil, apperrors.NotFoundf("Customer not found")
	}
	return customer, nil
}

// Search 在姓名、邮箱、电话上做子串匹配；没有任何命中视为 NotFound。
func (s *Service) Search(ctx context.Context, term string) ([]*CustomerDTO, error) {
	ctx, span := s.tracer.Start(ctx, "crm.Search")
	defer span.End()

	if term == "" {
		return nil, apperrors.Validationf("The field value is missing, please insert the info.")
	}
	customers, err := s.store.Search(ctx, term)
	if err != nil {
		return nil, s.fail(span, "Error while searching customers", err)
	}
	if len(customers) == 0 {
		return nil, apperrors.NotFoundf("No customers found matching your criteria")
	}
	return toCustomerDTOs(customers), nil
}

// Update 对客户做部分更新。换邮箱时重新检查唯一性。
func (s *Service) Update(ctx context.Context, id string, req *UpdateCustomerRequest) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "crm.Update")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validationf("Invalid customer ID format")
	}
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while updating customer", err)
	}
	if existing == nil {
		return nil, apperrors.NotFoundf("Customer not found")
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil && *req.Email != existing.Email {
		if !strings.Contains(*req.Email, "@") {
			return nil, apperrors.Validationf("Invalid email address")
		}
		taken, err := s.store.EmailExists(ctx, *req.Email)
		if err != nil {
			return nil, s.fail(span, "Error while updating customer", err)
		}
		if taken {
			return nil, apperrors.Conflictf("Email already exists in the database")
		}
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}

	if len(fields) > 0 {
		if err := s.store.Update(ctx, id, fields); err != nil {
			return nil, s.fail(span, "Error while updating customer", err)
		}
	}

	updated, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while updating customer", err)
	}
	logger.Ctx(ctx).Info().Str("customer_id", id).Msg("customer updated")
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "crm.Remove")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validationf("Invalid customer ID format")
	}
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.fail(span, "Error while deleting customer", err)
	}
	if existing == nil {
		return apperrors.NotFoundf("Customer not found")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(span, "Error while deleting customer", err)
	}
	logger.Ctx(ctx).Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

func (s *Service) fail(span trace.Span, message string, err error) error {
	span.RecordError(err)
	if apperrors.IsDomain(err) {
		return err
	}
	return apperrors.Internal(message, err)
}
