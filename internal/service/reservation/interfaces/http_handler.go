// internal/service/reservation/interfaces/http_handler.go
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
	"reserva/internal/service/reservation/application"
	"reserva/internal/service/reservation/domain"
)

// ReservationApplication 是 handler 消费的用例接口。
type ReservationApplication interface {
	Create(ctx context.Context, req *application.CreateReservationRequest) (*domain.Reservation, error)
	Update(ctx context.Context, id string, req *application.UpdateReservationRequest) (*domain.Reservation, error)
	Remove(ctx context.Context, id string) error
	FindOne(ctx context.Context, id string) (*domain.Reservation, error)
	FindAll(ctx context.Context, pageNumber int) (*application.ReservationPage, error)
}

// ReservationHandler 封装了预订服务的 HTTP 处理器。
type ReservationHandler struct {
	service ReservationApplication
}

func NewReservationHandler(service ReservationApplication) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由，wrap 通常是认证中间件。
func (h *ReservationHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /reservation", wrap(h.create))
	mux.HandleFunc("GET /reservation", wrap(h.list))
	mux.HandleFunc("GET /reservation/{id}", wrap(h.findOne))
	mux.HandleFunc("PATCH /reservation/{id}", wrap(h.update))
	mux.HandleFunc("DELETE /reservation/{id}", wrap(h.remove))
}

func (h *ReservationHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, apperrors.Validationf("Invalid request body"))
		return
	}

	reservation, err := h.service.Create(ctx, &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, "Reservation created successfully", application.ToReservationDTO(reservation))
}

func (h *ReservationHandler) list(w http.ResponseWriter, r *http.Request) {
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
	httpx.WriteJSON(w, http.StatusOK, "Reservations retrieved successfully", page)
}

func (h *ReservationHandler) findOne(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	reservation, err := h.service.FindOne(ctx, r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Reservation retrieved successfully", application.ToReservationDTO(reservation))
}

func (h *ReservationHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, apperrors.Validationf("Invalid request body"))
		return
	}

	reservation, err := h.service.Update(ctx, r.PathValue("id"), &req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Reservation updated successfully", application.ToReservationDTO(reservation))
}

func (h *ReservationHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	if err := h.service.Remove(ctx, r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Reservation deleted successfully", nil)
}

// extract 接回上游传来的 trace 上下文。
func extract(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}
