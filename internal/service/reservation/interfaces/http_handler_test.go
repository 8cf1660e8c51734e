// internal/service/reservation/interfaces/http_handler_test.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/service/reservation/application"
	"reserva/internal/service/reservation/domain"
)

type stubApplication struct {
	createFn  func(ctx context.Context, req *application.CreateReservationRequest) (*domain.Reservation, error)
	updateFn  func(ctx context.Context, id string, req *application.UpdateReservationRequest) (*domain.Reservation, error)
	removeFn  func(ctx context.Context, id string) error
	findOneFn func(ctx context.Context, id string) (*domain.Reservation, error)
	findAllFn func(ctx context.Context, pageNumber int) (*application.ReservationPage, error)
}

func (s *stubApplication) Create(ctx context.Context, req *application.CreateReservationRequest) (*domain.Reservation, error) {
	return s.createFn(ctx, req)
}

func (s *stubApplication) Update(ctx context.Context, id string, req *application.UpdateReservationRequest) (*domain.Reservation, error) {
	return s.updateFn(ctx, id, req)
}

func (s *stubApplication) Remove(ctx context.Context, id string) error {
	return s.removeFn(ctx, id)
}

func (s *stubApplication) FindOne(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.findOneFn(ctx, id)
}

func (s *stubApplication) FindAll(ctx context.Context, pageNumber int) (*application.ReservationPage, error) {
	return s.findAllFn(ctx, pageNumber)
}

func newTestServer(app *stubApplication) *httptest.Server {
	mux := http.NewServeMux()
	NewReservationHandler(app).RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc { return next })
	return httptest.NewServer(mux)
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestCreateReturns201Envelope(t *testing.T) {
	app := &stubApplication{
		createFn: func(_ context.Context, req *application.CreateReservationRequest) (*domain.Reservation, error) {
			return &domain.Reservation{
				ID:         "res-1",
				CustomerID: req.CustomerID,
				Status:     domain.StatusPending,
				Total:      30,
				Items: []domain.LineItem{
					{ProductID: "p1", ProductName: "Widget", Quantity: 3, UnitPrice: 10, TotalPrice: 30},
				},
			}, nil
		},
	}
	server := newTestServer(app)
	defer server.Close()

	payload := `{"customerId":"cust-1","products":[{"productId":"p1","quantity":3,"unitPrice":10}]}`
	resp, err := http.Post(server.URL+"/reservation", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeEnvelope(t, resp)
	if body["message"] != "Reservation created successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	data := body["data"].(map[string]interface{})
	if data["reservationId"] != "res-1" {
		t.Errorf("unexpected reservation id: %v", data["reservationId"])
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	server := newTestServer(&stubApplication{})
	defer server.Close()

	resp, err := http.Post(server.URL+"/reservation", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeEnvelope(t, resp)
	if body["message"] != "Invalid request body" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.Validationf("Invalid reservation ID format"), http.StatusBadRequest},
		{"insufficient stock", &apperrors.InsufficientStockError{Violations: []apperrors.StockViolation{
			{ProductName: "Widget", Available: 2, Requested: 3},
		}}, http.StatusBadRequest},
		{"not found", apperrors.NotFoundf("Reservation not found"), http.StatusNotFound},
		{"conflict", &apperrors.ConflictError{Message: "Stock level changed concurrently, please retry", Retryable: true}, http.StatusConflict},
		{"internal", apperrors.Internal("Error while fetching reservation", context.DeadlineExceeded), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := &stubApplication{
				findOneFn: func(_ context.Context, _ string) (*domain.Reservation, error) {
					return nil, tc.err
				},
			}
			server := newTestServer(app)
			defer server.Close()

			resp, err := http.Get(server.URL + "/reservation/some-id")
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestListDefaultsToPageOne(t *testing.T) {
	var gotPage int
	app := &stubApplication{
		findAllFn: func(_ context.Context, pageNumber int) (*application.ReservationPage, error) {
			gotPage = pageNumber
			return &application.ReservationPage{Reservations: []*application.ReservationDTO{}}, nil
		},
	}
	server := newTestServer(app)
	defer server.Close()

	resp, err := http.Get(server.URL + "/reservation")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if gotPage != 1 {
		t.Errorf("expected default page 1, got %d", gotPage)
	}

	resp, err = http.Get(server.URL + "/reservation?page=3")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if gotPage != 3 {
		t.Errorf("expected page 3, got %d", gotPage)
	}

	resp, err = http.Get(server.URL + "/reservation?page=abc")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer page, got %d", resp.StatusCode)
	}
}

func TestUpdateAndRemoveRoutes(t *testing.T) {
	var updatedID, removedID string
	app := &stubApplication{
		updateFn: func(_ context.Context, id string, _ *application.UpdateReservationRequest) (*domain.Reservation, error) {
			updatedID = id
			return &domain.Reservation{ID: id, Status: domain.StatusConfirmed}, nil
		},
		removeFn: func(_ context.Context, id string) error {
			removedID = id
			return nil
		},
	}
	server := newTestServer(app)
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPatch, server.URL+"/reservation/res-9", strings.NewReader(`{"status":"CONFIRMED"}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || updatedID != "res-9" {
		t.Errorf("unexpected patch result: status=%d id=%s", resp.StatusCode, updatedID)
	}

	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/reservation/res-9", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	body := decodeEnvelope(t, resp)
	if resp.StatusCode != http.StatusOK || removedID != "res-9" {
		t.Errorf("unexpected delete result: status=%d id=%s", resp.StatusCode, removedID)
	}
	if body["message"] != "Reservation deleted successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}
