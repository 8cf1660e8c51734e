// internal/auth/http_handler.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"reserva/internal/pkg/apperrors"
	"reserva/internal/pkg/httpclient"
	"reserva/internal/pkg/httpx"
	"reserva/internal/pkg/logger"
)

// credentials 是注册和登录共用的请求体。
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// SessionInvalidator 在注销时丢弃已缓存的会话校验结果。
type SessionInvalidator interface {
	Invalidate(ctx context.Context, accessToken string) error
}

// Handler 把注册/登录转发给身份提供方，并负责会话 cookie 的下发与清除。
type Handler struct {
	client   *httpclient.Client
	baseURL  string
	apiKey   string
	sessions SessionInvalidator
}

func NewHandler(client *httpclient.Client, baseURL, apiKey string, sessions SessionInvalidator) *Handler {
	return &Handler{client: client, baseURL: baseURL, apiKey: apiKey, sessions: sessions}
}

// RegisterRoutes 注册认证路由；signout 和 verify 必须在会话内调用。
func (h *Handler) RegisterRoutes(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /auth/signup", h.signUp)
	mux.HandleFunc("POST /auth/signin", h.signIn)
	mux.HandleFunc("GET /auth/signout", wrap(h.signOut))
	mux.HandleFunc("GET /auth/verify", wrap(h.verify))
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		httpx.WriteError(w, r, apperrors.Validationf("Email and password are required"))
		return
	}

	err := h.client.PostJSON(r.Context(), h.baseURL+"/auth/v1/signup",
		map[string]string{"apikey": h.apiKey}, creds, nil)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("signup rejected by identity provider")
		httpx.WriteJSON(w, http.StatusBadRequest, "Registration failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated,
		"Successfully registered. We sent you a confirmation message to your email.", nil)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		httpx.WriteError(w, r, apperrors.Validationf("Email and password are required"))
		return
	}

	var token tokenResponse
	err := h.client.PostJSON(r.Context(), h.baseURL+"/auth/v1/token?grant_type=password",
		map[string]string{"apikey": h.apiKey}, creds, &token)
	if err != nil {
		var statusErr *httpclient.StatusError
		if pkgerrors.As(err, &statusErr) && statusErr.StatusCode < 500 {
			httpx.WriteJSON(w, http.StatusUnauthorized, "Invalid credentials.", nil)
			return
		}
		httpx.WriteError(w, r, apperrors.Internal("Error during sign in process", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token.AccessToken,
		Path:     "/",
		MaxAge:   token.ExpiresIn,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, "Successfully signed in", nil)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	// 清掉缓存的校验结果，令牌立即在本服务失效，不必等 TTL 过期
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" && h.sessions != nil {
		if err := h.sessions.Invalidate(r.Context(), cookie.Value); err != nil {
			logger.Ctx(r.Context()).Warn().Err(err).Msg("failed to invalidate cached session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, "Successfully signed out", nil)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, "No authentication token found", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, "Session is valid", principal)
}
