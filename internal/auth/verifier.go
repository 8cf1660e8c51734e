// internal/auth/verifier.go
package auth

import (
	"context"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"reserva/internal/pkg/httpclient"
)

// Principal 是身份提供方确认过的登录用户。
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ErrInvalidToken 表示令牌缺失、过期或被身份提供方拒绝。
var ErrInvalidToken = pkgerrors.New("invalid or expired token")

// Verifier 校验访问令牌并返回其对应的用户。
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (*Principal, error)
}

// SupabaseVerifier 把令牌校验委托给 Supabase 的 GoTrue 接口。
type SupabaseVerifier struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string
}

func NewSupabaseVerifier(client *httpclient.Client, baseURL, apiKey string) *SupabaseVerifier {
	return &SupabaseVerifier{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (v *SupabaseVerifier) Verify(ctx context.Context, accessToken string) (*Principal, error) {
	var user Principal
	err := v.client.GetJSON(ctx, v.baseURL+"/auth/v1/user", map[string]string{
		"Authorization": "Bearer " + accessToken,
		"apikey":        v.apiKey,
	}, &user)
	if err != nil {
		var statusErr *httpclient.StatusError
		if pkgerrors.As(err, &statusErr) && (statusErr.StatusCode == 401 || statusErr.StatusCode == 403) {
			return nil, ErrInvalidToken
		}
		return nil, pkgerrors.Wrap(err, "failed to verify access token")
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &user, nil
}

// tokenCacheKey 不把原始令牌写进 Redis，只存其摘要。
func tokenCacheKey(accessToken string) string {
	return fmt.Sprintf("auth:token:%x", sha256Sum(accessToken))
}
