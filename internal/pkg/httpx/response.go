// internal/pkg/httpx/response.go
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/pkg/logger"
)

// Envelope 是所有接口统一的响应外壳，沿用前端已经依赖的字段。
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

// WriteJSON 输出成功响应。
func WriteJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{StatusCode: status, Message: message, Data: data})
}

// WriteError 按错误分类映射 HTTP 状态码后输出。
// 非领域错误一律折叠为 500，不向外泄露内部细节。
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Msg("request failed with internal error")
		var ie *apperrors.InternalError
		if errors.As(err, &ie) {
			message = ie.Message
		} else {
			message = "Internal server error"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{StatusCode: status, Message: message})
}

// StatusOf 返回错误对应的 HTTP 状态码。
func StatusOf(err error) int {
	var (
		ve *apperrors.ValidationError
		nf *apperrors.NotFoundError
		cf *apperrors.ConflictError
		is *apperrors.InsufficientStockError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &is):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &cf):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
