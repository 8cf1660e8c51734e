// internal/service/reservation/application/service.go
package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/pkg/logger"
	"reserva/internal/pkg/pagination"
	"reserva/internal/service/reservation/domain"
)

// Service 是预订库存账本：所有会动库存的操作都在这里编排，
// 并且每个操作整体运行在一个数据库事务里。
type Service struct {
	store     domain.Store
	publisher domain.EventPublisher
	tracer    trace.Tracer
}

func NewService(store domain.Store, publisher domain.EventPublisher, tracer trace.Tracer) *Service {
	return &Service{store: store, publisher: publisher, tracer: tracer}
}

// Create 校验客户、商品与库存后原子化落库：
// 插入预订单和明细，并在同一事务里扣减每个商品的库存。
func (s *Service) Create(ctx context.Context, req *CreateReservationRequest) (*domain.Reservation, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.Create")
	defer span.End()

	if len(req.Products) == 0 {
		return nil, apperrors.Validationf("Reservation must have at least one product")
	}
	if err := validateQuantities(req.Products); err != nil {
		return nil, err
	}

	status := domain.StatusPending
	if req.Status != "" {
		status = domain.Status(req.Status)
		if !status.IsValid() {
			return nil, apperrors.Validationf("Invalid reservation status: %s", req.Status)
		}
	}

	reservation := &domain.Reservation{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		ok, err := tx.CustomerExists(req.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NotFoundf("Customer with ID %s not found", req.CustomerID)
		}

		productIDs, needed := aggregateRequests(req.Products)
		products, err := lockProducts(tx, productIDs, productIDs)
		if err != nil {
			return err
		}
		if err := checkStock(productIDs, needed, products); err != nil {
			return err
		}

		reservation.Items = buildLineItems(req.Products, products)
		reservation.Total = domain.TotalOf(reservation.Items)

		if err := tx.InsertReservation(reservation); err != nil {
			return err
		}
		for _, id := range productIDs {
			if err := tx.AdjustStock(id, -needed[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, "Error while creating reservation", err)
	}

	reservationsCommittedTotal.WithLabelValues("create").Inc()
	span.SetAttributes(
		attribute.String("reservation.id", reservation.ID),
		attribute.Float64("reservation.total", reservation.Total),
	)
	logger.Ctx(ctx).Info().
		Str("reservation_id", reservation.ID).
		Float64("total", reservation.Total).
		Msg("reservation created, stock committed")
	s.publish(ctx, domain.EventReservationCreated, reservation)
	return reservation, nil
}

// Update 对预订单做部分更新。Products 非空时整组替换明细：
// 相对旧明细计算净库存变化，校验净增量，然后在同一事务里
// 应用库存变化、替换明细并重算合计。元数据字段可独立修改，不触库存。
func (s *Service) Update(ctx context.Context, id string, req *UpdateReservationRequest) (*domain.Reservation, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.Update")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validationf("Invalid reservation ID format")
	}
	if req.Status != nil && !domain.Status(*req.Status).IsValid() {
		return nil, apperrors.Validationf("Invalid reservation status: %s", *req.Status)
	}
	if len(req.Products) > 0 {
		if err := validateQuantities(req.Products); err != nil {
			return nil, err
		}
	}

	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		existing, err := tx.ReservationForUpdate(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.NotFoundf("Reservation not found")
		}

		fields := map[string]interface{}{}
		if req.CustomerID != nil {
			ok, err := tx.CustomerExists(*req.CustomerID)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.NotFoundf("Customer with ID %s not found", *req.CustomerID)
			}
			fields["customer_id"] = *req.CustomerID
		}
		if req.Date != nil {
			fields["date"] = *req.Date
		}
		if req.Status != nil {
			fields["status"] = *req.Status
		}

		switch {
		case len(req.Products) > 0:
			newIDs, _ := aggregateRequests(req.Products)
			oldIDs, _ := aggregateItems(existing.Items)
			products, err := lockProducts(tx, unionOrdered(oldIDs, newIDs), newIDs)
			if err != nil {
				return err
			}

			newItems := buildLineItems(req.Products, products)
			deltas := domain.ComputeStockDeltas(existing.Items, newItems)
			if err := checkStock(newIDs, deltas, products); err != nil {
				return err
			}

			if err := tx.ReplaceLineItems(id, newItems); err != nil {
				return err
			}
			for _, pid := range unionOrdered(oldIDs, newIDs) {
				delta, ok := deltas[pid]
				if !ok {
					continue
				}
				if _, found := products[pid]; !found {
					// 旧明细引用的商品已被删除，没有库存行可还原
					logger.Ctx(ctx).Warn().Str("product_id", pid).
						Msg("skipping stock adjustment for product missing from catalog")
					continue
				}
				if err := tx.AdjustStock(pid, -delta); err != nil {
					return err
				}
			}
			// 明细变了，合计必须重新推导，忽略请求里的 total
			fields["total"] = domain.TotalOf(newItems)
		case req.Total != nil:
			fields["total"] = *req.Total
		}

		if len(fields) == 0 {
			return nil
		}
		return tx.UpdateReservation(id, fields)
	})
	if err != nil {
		return nil, s.fail(span, "Error while updating reservation", err)
	}

	updated, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while updating reservation", err)
	}
	reservationsCommittedTotal.WithLabelValues("update").Inc()
	logger.Ctx(ctx).Info().Str("reservation_id", id).Msg("reservation updated")
	s.publish(ctx, domain.EventReservationUpdated, updated)
	return updated, nil
}

// Remove 在一个事务里把每个商品的库存加回明细数量，删除明细，再删除预订单本体。
func (s *Service) Remove(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ledger.Remove")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validationf("Invalid reservation ID format")
	}

	var removed *domain.Reservation
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		existing, err := tx.ReservationForUpdate(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.NotFoundf("Reservation not found")
		}
		removed = existing

		oldIDs, held := aggregateItems(existing.Items)
		products, err := lockProducts(tx, oldIDs, nil)
		if err != nil {
			return err
		}
		for _, pid := range oldIDs {
			if _, found := products[pid]; !found {
				logger.Ctx(ctx).Warn().Str("product_id", pid).
					Msg("skipping stock restore for product missing from catalog")
				continue
			}
			if err := tx.AdjustStock(pid, held[pid]); err != nil {
				return err
			}
		}
		if err := tx.ReplaceLineItems(id, nil); err != nil {
			return err
		}
		return tx.DeleteReservation(id)
	})
	if err != nil {
		return s.fail(span, "Error while deleting reservation", err)
	}

	reservationsCommittedTotal.WithLabelValues("remove").Inc()
	logger.Ctx(ctx).Info().Str("reservation_id", id).Msg("reservation removed, stock restored")
	s.publish(ctx, domain.EventReservationDeleted, removed)
	return nil
}

// FindOne 读取单个预订单，预加载明细和客户。
func (s *Service) FindOne(ctx context.Context, id string) (*domain.Reservation, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.FindOne")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Validationf("Invalid reservation ID format")
	}
	reservation, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, "Error while fetching reservation", err)
	}
	if reservation == nil {
		return nil, apperrors.NotFoundf("Reservation not found")
	}
	return reservation, nil
}

// FindAll 按创建时间倒序分页列出预订单。
func (s *Service) FindAll(ctx context.Context, pageNumber int) (*ReservationPage, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.FindAll")
	defer span.End()

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, s.fail(span, "Error while fetching reservations", err)
	}
	offset, page, err := pagination.Resolve(pageNumber, count)
	if err != nil {
		return nil, err
	}
	reservations, err := s.store.List(ctx, offset, pagination.DefaultPageSize)
	if err != nil {
		return nil, s.fail(span, "Error while fetching reservations", err)
	}

	dtos := make([]*ReservationDTO, len(reservations))
	for i, r := range reservations {
		dtos[i] = ToReservationDTO(r)
	}
	return &ReservationPage{Reservations: dtos, Pagination: page}, nil
}

// fail 统一处理失败出口：打点、记录 span，领域错误透传，其余折叠为 InternalError。
func (s *Service) fail(span trace.Span, message string, err error) error {
	span.RecordError(err)

	var stockErr *apperrors.InsufficientStockError
	if errors.As(err, &stockErr) {
		insufficientStockTotal.Inc()
	}
	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) && conflictErr.Retryable {
		stockConflictsTotal.Inc()
	}

	if apperrors.IsDomain(err) {
		return err
	}
	span.SetStatus(codes.Error, message)
	return apperrors.Internal(message, err)
}

func (s *Service) publish(ctx context.Context, eventType string, r *domain.Reservation) {
	if s.publisher == nil || r == nil {
		return
	}
	event := &domain.Event{
		Type:          eventType,
		ReservationID: r.ID,
		CustomerID:    r.CustomerID,
		Status:        string(r.Status),
		Total:         r.Total,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.PublishReservationEvent(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("event_type", eventType).
			Str("reservation_id", r.ID).
			Msg("failed to publish reservation event")
	}
}

func validateQuantities(items []LineItemRequest) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return apperrors.Validationf("Line item quantity must be a positive integer")
		}
	}
	return nil
}

// aggregateRequests 把请求明细按商品聚合，返回去重后的有序 id 列表和每个商品的总需求量。
func aggregateRequests(items []LineItemRequest) ([]string, map[string]int) {
	ids := make([]string, 0, len(items))
	needed := make(map[string]int, len(items))
	for _, item := range items {
		if _, seen := needed[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		needed[item.ProductID] += item.Quantity
	}
	return ids, needed
}

func aggregateItems(items []domain.LineItem) ([]string, map[string]int) {
	ids := make([]string, 0, len(items))
	held := make(map[string]int, len(items))
	for _, item := range items {
		if _, seen := held[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		held[item.ProductID] += item.Quantity
	}
	return ids, held
}

// lockProducts 对 lockIDs 加行级锁读取商品。requiredIDs 里缺失的商品
// 会以一条聚合的 NotFoundError 报出（一次性列出所有缺失 id）。
func lockProducts(tx domain.Tx, lockIDs, requiredIDs []string) (map[string]*domain.ProductRef, error) {
	rows, err := tx.ProductsForUpdate(lockIDs)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*domain.ProductRef, len(rows))
	for _, p := range rows {
		products[p.ID] = p
	}
	var missing []string
	for _, id := range requiredIDs {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NotFoundf("Products not found: %s", strings.Join(missing, ", "))
	}
	return products, nil
}

// checkStock 校验每个商品的可用库存能覆盖净需求量。
// 先检查完全部商品再失败，把所有冲突聚合进一个 InsufficientStockError。
func checkStock(orderedIDs []string, needed map[string]int, products map[string]*domain.ProductRef) error {
	var violations []apperrors.StockViolation
	for _, id := range orderedIDs {
		need := needed[id]
		if need <= 0 {
			continue
		}
		product, ok := products[id]
		if !ok {
			continue
		}
		if product.QuantityInStock < need {
			violations = append(violations, apperrors.StockViolation{
				ProductName: product.Name,
				Available:   product.QuantityInStock,
				Requested:   need,
			})
		}
	}
	if len(violations) > 0 {
		return &apperrors.InsufficientStockError{Violations: violations}
	}
	return nil
}

// buildLineItems 用加锁读到的商品信息物化明细：名称以目录为准，
// 单价优先取请求里的报价，缺省时回退到商品当前价。
func buildLineItems(reqs []LineItemRequest, products map[string]*domain.ProductRef) []domain.LineItem {
	items := make([]domain.LineItem, len(reqs))
	for i, req := range reqs {
		product := products[req.ProductID]
		unitPrice := req.UnitPrice
		if unitPrice <= 0 {
			unitPrice = product.Price
		}
		items[i] = domain.LineItem{
			ProductID:   req.ProductID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  float64(req.Quantity) * unitPrice,
		}
	}
	return items
}

func unionOrdered(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
