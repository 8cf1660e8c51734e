// internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"

	"reserva/internal/pkg/httpx"
	"reserva/internal/pkg/logger"
)

// CookieName 是承载访问令牌的会话 cookie。
const CookieName = "accessToken"

type contextKey struct{}

// PrincipalFrom 取出中间件写入的登录用户；不存在时第二个返回值为 false。
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok
}

// Middleware 保护业务路由：校验会话 cookie，把用户挂到请求上下文。
type Middleware struct {
	verifier Verifier
}

func NewMiddleware(verifier Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Wrap 返回带认证检查的处理器，校验失败时以统一信封回 401。
func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			httpx.WriteJSON(w, http.StatusUnauthorized, "No authentication token found", nil)
			return
		}

		principal, err := m.verifier.Verify(r.Context(), cookie.Value)
		if err != nil {
			logger.Ctx(r.Context()).Debug().Err(err).Msg("session verification failed")
			httpx.WriteJSON(w, http.StatusUnauthorized, "Invalid authentication token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, principal)
		next(w, r.WithContext(ctx))
	}
}
