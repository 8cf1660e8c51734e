// internal/service/product/application/service_test.go
package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/service/product/domain"
)

type fakeStore struct {
	products map[string]*domain.Product
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: map[string]*domain.Product{}}
}

func (s *fakeStore) Insert(_ context.Context, p *domain.Product) error {
	for _, existing := range s.products {
		if strings.EqualFold(existing.ProductName, p.ProductName) {
			return apperrors.Conflictf("Product name already exists in the database")
		}
	}
	c := *p
	s.products[p.ID] = &c
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (s *fakeStore) NameExists(_ context.Context, name string) (bool, error) {
	for _, p := range s.products {
		if strings.EqualFold(p.ProductName, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) List(_ context.Context, offset, limit int) ([]*domain.Product, error) {
	all := s.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *fakeStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *fakeStore) Update(_ context.Context, id string, fields map[string]interface{}) error {
	p := s.products[id]
	for k, v := range fields {
		switch k {
		case "product_name":
			p.ProductName = v.(string)
		case "description":
			p.Description = v.(string)
		case "category":
			p.Category = v.(string)
		case "price":
			p.Price = v.(float64)
		case "quantity_in_stock":
			p.QuantityInStock = v.(int)
		case "is_active":
			p.IsActive = v.(bool)
		case "image_url":
			p.ImageURL = v.(string)
		case "updated_at":
			p.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	delete(s.products, id)
	return nil
}

func (s *fakeStore) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(s.products))
	s.products = map[string]*domain.Product{}
	return n, nil
}

func (s *fakeStore) FilterByName(_ context.Context, name string, limit int) ([]*domain.Product, error) {
	return s.filter(limit, func(p *domain.Product) bool {
		return strings.EqualFold(p.ProductName, name)
	}), nil
}

func (s *fakeStore) FilterByNamePrefix(_ context.Context, prefix string, limit int) ([]*domain.Product, error) {
	return s.filter(limit, func(p *domain.Product) bool {
		return strings.HasPrefix(strings.ToLower(p.ProductName), strings.ToLower(prefix))
	}), nil
}

func (s *fakeStore) FilterByCategory(_ context.Context, category string, limit int) ([]*domain.Product, error) {
	return s.filter(limit, func(p *domain.Product) bool {
		return p.Category == category
	}), nil
}

func (s *fakeStore) filter(limit int, match func(*domain.Product) bool) []*domain.Product {
	var out []*domain.Product
	for _, p := range s.sorted() {
		if !match(p) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *fakeStore) sorted() []*domain.Product {
	all := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, noop.NewTracerProvider().Tracer("test"))
}

func TestCreateSetsDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	p, err := svc.Create(context.Background(), &CreateProductRequest{
		ProductName:     "Widget",
		Category:        "tools",
		Price:           9.99,
		QuantityInStock: 50,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !p.IsActive {
		t.Error("new product must be active")
	}
	if p.ImageURL != "" {
		t.Errorf("expected empty image url, got %q", p.ImageURL)
	}
	if p.ID == "" || p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Errorf("expected generated id and timestamps, got %+v", p)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateProductRequest{ProductName: "Widget", Price: 1}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := svc.Create(ctx, &CreateProductRequest{ProductName: "Widget", Price: 2})
	var conflict *apperrors.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Message != "Product name already exists in the database" {
		t.Errorf("unexpected message: %q", conflict.Message)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	cases := []*CreateProductRequest{
		{ProductName: ""},
		{ProductName: "Widget", Price: -1},
		{ProductName: "Widget", QuantityInStock: -1},
	}
	for _, req := range cases {
		_, err := svc.Create(ctx, req)
		var valErr *apperrors.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("expected ValidationError for %+v, got %v", req, err)
		}
	}
}

func TestFindOne(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, &CreateProductRequest{ProductName: "Widget", Price: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.FindOne(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.ProductName != "Widget" {
		t.Errorf("unexpected product: %+v", got)
	}

	if _, err := svc.FindOne(ctx, "not-a-uuid"); err == nil {
		t.Error("expected error for malformed id")
	}
	_, err = svc.FindOne(ctx, uuid.NewString())
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateRenameChecksUniqueness(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	a, _ := svc.Create(ctx, &CreateProductRequest{ProductName: "Widget", Price: 1})
	if _, err := svc.Create(ctx, &CreateProductRequest{ProductName: "Gadget", Price: 1}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	taken := "Gadget"
	_, err := svc.Update(ctx, a.ID, &UpdateProductRequest{ProductName: &taken})
	var conflict *apperrors.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError on rename collision, got %v", err)
	}

	fresh := "Sprocket"
	price := 3.5
	updated, err := svc.Update(ctx, a.ID, &UpdateProductRequest{ProductName: &fresh, Price: &price})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ProductName != "Sprocket" || updated.Price != 3.5 {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(a.UpdatedAt) && !updated.UpdatedAt.Equal(a.UpdatedAt) {
		t.Errorf("expected updated_at refreshed")
	}
}

func TestFilterBy(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	names := []string{"Alpha Drill", "Alpha Saw", "Beta Hammer"}
	for _, name := range names {
		if _, err := svc.Create(ctx, &CreateProductRequest{ProductName: name, Category: "tools", Price: 1}); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}

	result, err := svc.FilterBy(ctx, domain.FilterNameInserted, "alpha drill")
	if err != nil {
		t.Fatalf("FilterBy ipi failed: %v", err)
	}
	if check := result.(*NameCheck); !check.Exists {
		t.Error("expected name check to report existing name")
	}
	result, err = svc.FilterBy(ctx, domain.FilterNameInserted, "Unknown")
	if err != nil {
		t.Fatalf("FilterBy ipi failed: %v", err)
	}
	if check := result.(*NameCheck); check.Exists {
		t.Error("expected name check to report free name")
	}

	result, err = svc.FilterBy(ctx, domain.FilterNamePrefix, "alpha")
	if err != nil {
		t.Fatalf("FilterBy psw failed: %v", err)
	}
	if got := result.([]*ProductDTO); len(got) != 2 {
		t.Errorf("expected 2 prefix matches, got %d", len(got))
	}

	result, err = svc.FilterBy(ctx, domain.FilterCategory, "tools")
	if err != nil {
		t.Fatalf("FilterBy pwc failed: %v", err)
	}
	if got := result.([]*ProductDTO); len(got) != 3 {
		t.Errorf("expected 3 category matches, got %d", len(got))
	}

	_, err = svc.FilterBy(ctx, domain.FilterCategory, "none-such")
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError for empty filter result, got %v", err)
	}

	if _, err := svc.FilterBy(ctx, domain.FilterKind("bogus"), "x"); err == nil {
		t.Error("expected error for invalid filter kind")
	}
}

func TestFilterCapsResults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		name := "Tool " + uuid.NewString()
		if _, err := svc.Create(ctx, &CreateProductRequest{ProductName: name, Category: "bulk", Price: 1}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	result, err := svc.FilterBy(ctx, domain.FilterCategory, "bulk")
	if err != nil {
		t.Fatalf("FilterBy failed: %v", err)
	}
	if got := result.([]*ProductDTO); len(got) != 5 {
		t.Errorf("expected filter capped at 5, got %d", len(got))
	}
}

func TestRemoveAndRemoveAll(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	p, _ := svc.Create(ctx, &CreateProductRequest{ProductName: "Widget", Price: 1})
	if err := svc.Remove(ctx, p.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	err := svc.Remove(ctx, p.ID)
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError on second remove, got %v", err)
	}

	for _, name := range []string{"A", "B", "C"} {
		if _, err := svc.Create(ctx, &CreateProductRequest{ProductName: name, Price: 1}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	deleted, err := svc.RemoveAll(ctx)
	if err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("expected empty catalog, got %d", n)
	}
}

func TestFindAllPagination(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		p, err := svc.Create(ctx, &CreateProductRequest{ProductName: "P" + uuid.NewString(), Price: 1})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		store.products[p.ID].CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
	}

	page1, err := svc.FindAll(ctx, 1)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(page1.Products) != 10 || page1.Pagination.TotalPages != 2 {
		t.Errorf("unexpected page 1: %d items, %+v", len(page1.Products), page1.Pagination)
	}
	page2, err := svc.FindAll(ctx, 2)
	if err != nil {
		t.Fatalf("FindAll page 2 failed: %v", err)
	}
	if len(page2.Products) != 1 {
		t.Errorf("expected 1 item on page 2, got %d", len(page2.Products))
	}
	if _, err := svc.FindAll(ctx, 5); err == nil {
		t.Error("expected error for page beyond last")
	}
}
