// internal/service/customer/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/pkg/httpx"
	"reserva/internal/service/customer/application"
	"reserva/internal/service/customer/domain"
)

// CustomerApplication 是 handler 消费的用例接口。
type CustomerApplication interface {
	Create(ctx context.Context, req *application.CreateCustomerRequest) (*domain.Customer, error)
	FindAll(ctx context.Context, pageNumber int) (*application.CustomerPage, error)
	FindOne(ctx context.Context, id string) (*domain.Customer, error)
	Search(ctx context.Context, term string) ([]*application.CustomerDTO, error)
	Update(ctx context.Context, id string, req *application.UpdateCustomerRequest) (*domain.Customer, error)
	Remove(ctx context.Context, id string) error
}

// CustomerHandler 封装了客户档案的 HTTP 处理器。
type CustomerHandler struct {
	service CustomerApplication
}

func NewCustomerHandler(service CustomerApplication) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func (h *CustomerHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /customer", wrap(h.create))
	mux.HandleFunc("GET /customer", wrap(h.list))
	mux.HandleFunc("GET /customer/findby", wrap(h.search))
	mux.HandleFunc("GET /customer/{id}", wrap(h.findOne))
	mux.HandleFunc("PATCH /customer/{id}", wrap(h.update))
	mux.HandleFunc("DELETE /customer/{id}", wrap(h.remove))
}

func (h *CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, apperrors.Validationf("Invalid request body"))
		return
	}

	customer, err := h.service.Create(ctx, &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, "Customer created successfully", application.ToCustomerDTO(customer))
}

func (h *CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	pageParam := r.URL.Query().Get("page")
	if pageParam == "" {
		pageParam = "1"
	}
	pageNumber, err := strconv.Atoi(pageParam)
	if err != nil {
		httpx.WriteError(w, r, apperrors.Validationf("The page parameter must be an integer"))
		return
	}

	page, err := h.service.FindAll(ctx, pageNumber)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Customers retrieved successfully", page)
}

func (h *CustomerHandler) search(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	customers, err := h.service.Search(ctx, r.URL.Query().Get("value"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Customers retrieved successfully", customers)
}

func (h *CustomerHandler) findOne(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	customer, err := h.service.FindOne(ctx, r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Customer retrieved successfully", application.ToCustomerDTO(customer))
}

func (h *CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, apperrors.Validationf("Invalid request body"))
		return
	}

	customer, err := h.service.Update(ctx, r.PathValue("id"), &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Customer updated successfully", application.ToCustomerDTO(customer))
}

func (h *CustomerHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	if err := h.service.Remove(ctx, r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Customer deleted successfully", nil)
}

func extract(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}
