// internal/service/customer/application/service_test.go
package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/service/customer/domain"
)

type fakeStore struct {
	customers map[string]*domain.Customer
}

func newFakeStore() *fakeStore {
	return &fakeStore{customers: map[string]*domain.Customer{}}
}

func (s *fakeStore) Insert(_ context.Context, c *domain.Customer) error {
	for _, existing := range s.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return apperrors.Conflictf("Email already exists in the database")
		}
	}
	copied := *c
	s.customers[c.ID] = &copied
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) List(_ context.Context, offset, limit int) ([]*domain.Customer, error) {
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
	return int64(len(s.customers)), nil
}

func (s *fakeStore) Search(_ context.Context, term string) ([]*domain.Customer, error) {
	needle := strings.ToLower(term)
	var out []*domain.Customer
	for _, c := range s.sorted() {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) ||
			strings.Contains(strings.ToLower(c.Phone), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, id string, fields map[string]interface{}) error {
	c := s.customers[id]
	for k, v := range fields {
		switch k {
		case "name":
			c.Name = v.(string)
		case "email":
			c.Email = v.(string)
		case "phone":
			c.Phone = v.(string)
		case "address":
			c.Address = v.(string)
		}
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	delete(s.customers, id)
	return nil
}

func (s *fakeStore) sorted() []*domain.Customer {
	all := make([]*domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		copied := *c
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, noop.NewTracerProvider().Tracer("test"))
}

func TestCreateCustomer(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	c, err := svc.Create(context.Background(), &CreateCustomerRequest{
		Name:  "John Doe",
		Email: "john@example.com",
		Phone: "+1234567890",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Errorf("expected generated id and timestamp, got %+v", c)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateCustomerRequest{Name: "John", Email: "john@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := svc.Create(ctx, &CreateCustomerRequest{Name: "Jane", Email: "john@example.com"})
	var conflict *apperrors.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Message != "Email already exists in the database" {
		t.Errorf("unexpected message: %q", conflict.Message)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	for _, req := range []*CreateCustomerRequest{
		{Name: "", Email: "a@b.c"},
		{Name: "John", Email: "not-an-email"},
	} {
		_, err := svc.Create(ctx, req)
		var valErr *apperrors.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("expected ValidationError for %+v, got %v", req, err)
		}
	}
}

func TestSearch(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	seed := []*CreateCustomerRequest{
		{Name: "John Doe", Email: "john@example.com", Phone: "111"},
		{Name: "Jane Roe", Email: "jane@sample.org", Phone: "222"},
	}
	for _, req := range seed {
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := svc.Search(ctx, "john")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "John Doe" {
		t.Errorf("unexpected search result: %+v", got)
	}

	got, err = svc.Search(ctx, "example")
	if err != nil {
		t.Fatalf("Search by email failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 email match, got %d", len(got))
	}

	_, err = svc.Search(ctx, "nobody")
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError for no matches, got %v", err)
	}

	if _, err := svc.Search(ctx, ""); err == nil {
		t.Error("expected error for empty search term")
	}
}

func TestUpdateEmailChecksUniqueness(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	a, _ := svc.Create(ctx, &CreateCustomerRequest{Name: "John", Email: "john@example.com"})
	if _, err := svc.Create(ctx, &CreateCustomerRequest{Name: "Jane", Email: "jane@example.com"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	taken := "jane@example.com"
	_, err := svc.Update(ctx, a.ID, &UpdateCustomerRequest{Email: &taken})
	var conflict *apperrors.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// 自己保持原邮箱不触发冲突
	same := "john@example.com"
	name := "Johnny"
	updated, err := svc.Update(ctx, a.ID, &UpdateCustomerRequest{Email: &same, Name: &name})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Johnny" || updated.Email != "john@example.com" {
		t.Errorf("unexpected update result: %+v", updated)
	}
}

func TestRemove(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	c, _ := svc.Create(ctx, &CreateCustomerRequest{Name: "John", Email: "john@example.com"})
	if err := svc.Remove(ctx, c.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	err := svc.Remove(ctx, c.ID)
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError on second remove, got %v", err)
	}

	if err := svc.Remove(ctx, "bad-id"); err == nil {
		t.Error("expected error for malformed id")
	}
	_, err = svc.FindOne(ctx, uuid.NewString())
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
