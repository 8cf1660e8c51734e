// internal/service/product/interfaces/http_handler.go
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
	"reserva/internal/service/product/application"
	"reserva/internal/service/product/domain"
)

// ProductApplication 是 handler 消费的用例接口。
type ProductApplication interface {
	Create(ctx context.Context, req *application.CreateProductRequest) (*domain.Product, error)
	FindAll(ctx context.Context, pageNumber int) (*application.ProductPage, error)
	FindOne(ctx context.Context, id string) (*domain.Product, error)
	FilterBy(ctx context.Context, kind domain.FilterKind, value string) (interface{}, error)
	Update(ctx context.Context, id string, req *application.UpdateProductRequest) (*domain.Product, error)
	Remove(ctx context.Context, id string) error
	RemoveAll(ctx context.Context) (int64, error)
}

// ProductHandler 封装了商品目录的 HTTP 处理器。
type ProductHandler struct {
	service ProductApplication
}

func NewProductHandler(service ProductApplication) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /product", wrap(h.create))
	mux.HandleFunc("GET /product", wrap(h.list))
	mux.HandleFunc("GET /product/filter", wrap(h.filter))
	mux.HandleFunc("DELETE /product/all", wrap(h.removeAll))
	mux.HandleFunc("GET /product/{id}", wrap(h.findOne))
	mux.HandleFunc("PATCH /product/{id}", wrap(h.update))
	mux.HandleFunc("DELETE /product/{id}", wrap(h.remove))
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, apperrors.Validationf("Invalid request body"))
		return
	}

	product, err := h.service.Create(ctx, &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, "Product created successfully", application.ToProductDTO(product))
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
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
	httpx.WriteJSON(w, http.StatusOK, "Products retrieved successfully", page)
}

func (h *ProductHandler) filter(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	filterType := r.URL.Query().Get("filterType")
	value := r.URL.Query().Get("value")
	if filterType == "" {
		httpx.WriteError(w, r, apperrors.Validationf("The field filterType is missing, please insert the info."))
		return
	}
	if value == "" {
		httpx.WriteError(w, r, apperrors.Validationf("The field value is missing, please insert the info."))
		return
	}
	kind := domain.FilterKind(filterType)
	if !kind.IsValid() {
		httpx.WriteError(w, r, apperrors.Validationf(
			"The given filterType is not a valid one, the options we have are: "+
				"ipi (IS_PRODUCTNAME_INSERTED), psw (PRODUCTS_STARTING_WITH), pwc (PRODUCTS_WITH_CATEGORY). "+
				"Please try again."))
		return
	}

	result, err := h.service.FilterBy(ctx, kind, value)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	message := "Products retrieved successfully"
	if kind == domain.FilterNameInserted {
		message = "Product name verification completed"
	}
	httpx.WriteJSON(w, http.StatusOK, message, result)
}

func (h *ProductHandler) findOne(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	product, err := h.service.FindOne(ctx, r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Product retrieved successfully", application.ToProductDTO(product))
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, apperrors.Validationf("Invalid request body"))
		return
	}

	product, err := h.service.Update(ctx, r.PathValue("id"), &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Product updated successfully", application.ToProductDTO(product))
}

func (h *ProductHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	if err := h.service.Remove(ctx, r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) removeAll(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	deleted, err := h.service.RemoveAll(ctx)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "All products deleted successfully", map[string]int64{"count": deleted})
}

func extract(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}
