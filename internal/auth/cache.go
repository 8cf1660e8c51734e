// internal/auth/cache.go
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"reserva/internal/pkg/logger"
)

// TokenCache 是令牌校验结果的缓存端口，由 Redis 封装实现。
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetEX(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedVerifier 给底层 Verifier 加一层带 TTL 的结果缓存，
// 并用 singleflight 合并同一令牌的并发校验，避免打爆身份提供方。
// 只缓存校验成功的结果；失败每次都会重新确认。
type CachedVerifier struct {
	next  Verifier
	cache TokenCache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedVerifier(next Verifier, cache TokenCache, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{next: next, cache: cache, ttl: ttl}
}

func (v *CachedVerifier) Verify(ctx context.Context, accessToken string) (*Principal, error) {
	key := tokenCacheKey(accessToken)

	if cached, ok, err := v.cache.Get(ctx, key); err != nil {
		// 缓存故障时降级为直连校验
		logger.Ctx(ctx).Warn().Err(err).Msg("token cache read failed, falling through")
	} else if ok {
		var principal Principal
		if err := json.Unmarshal([]byte(cached), &principal); err == nil {
			return &principal, nil
		}
	}

	result, err, _ := v.group.Do(key, func() (interface{}, error) {
		principal, err := v.next.Verify(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(principal); err == nil {
			if err := v.cache.SetEX(ctx, key, string(raw), v.ttl); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Msg("token cache write failed")
			}
		}
		return principal, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Principal), nil
}

// Invalidate 在注销时丢弃缓存的校验结果，让令牌立即失效于本服务。
func (v *CachedVerifier) Invalidate(ctx context.Context, accessToken string) error {
	return v.cache.Del(ctx, tokenCacheKey(accessToken))
}

func sha256Sum(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}
