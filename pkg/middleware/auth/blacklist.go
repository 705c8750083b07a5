package auth

import (
	"context"
	"time"

	code "github.com/atmolab/gascalc/pkg/common/code"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	redis "github.com/atmolab/gascalc/pkg/middleware/redis"
)

const blacklistPrefix = "jwt:blacklist:"

// BlacklistToken voids a token until its natural expiry. The TTL matches the
// remaining token lifetime so the key disappears once the token would have
// expired anyway.
func BlacklistToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := redis.GetClient().Set(ctx, blacklistPrefix+token, "1", ttl).Err(); err != nil {
		logger.Errorf(ctx, "BlacklistToken set err: %+v", err)
		return code.UnDefineErr.WithErr(err)
	}
	return nil
}

// IsTokenBlacklisted reports whether the token has been logged out.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	n, err := redis.GetClient().Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		logger.Errorf(ctx, "IsTokenBlacklisted exists err: %+v", err)
		return false
	}
	return n > 0
}
