package auth

import (
	"context"
	"strings"

	gin "github.com/gin-gonic/gin"

	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
)

const USERKEY = "current_user"

// Auth validates the Bearer token, rejects blacklisted tokens and stores the
// resolved user on the request context.
func Auth() func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			abort(ctx, code.UnLogin)
			return
		}

		tokens := strings.SplitN(authHeader, " ", 2)
		if len(tokens) != 2 || tokens[0] != "Bearer" {
			abort(ctx, code.UnLogin.WithMsg("malformed authorization header"))
			return
		}

		token := tokens[1]
		if IsTokenBlacklisted(ctx, token) {
			abort(ctx, code.InvalidToken)
			return
		}

		claims, err := ParseToken(token)
		if err != nil {
			logger.Warnf(ctx, "Auth parse token err: %v", err)
			abort(ctx, code.InvalidToken)
			return
		}

		ctx.Set(USERKEY, &model.UserData{
			ID:    claims.UID,
			Login: claims.Login,
			Role:  claims.Role,
		})
		ctx.Next()
	}
}

// RequireModerator allows only moderators and admins past.
func RequireModerator() func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		user := GetCurrentUser(ctx)
		if user == nil || !user.Role.CanModerate() {
			abort(ctx, code.AccessDenied)
			return
		}
		ctx.Next()
	}
}

// GetCurrentUser returns the caller set by Auth, nil on unauthenticated
// routes. Services take a plain context, so the gin context is recovered by
// assertion here.
func GetCurrentUser(ctx context.Context) *model.UserData {
	gCtx, ok := ctx.(*gin.Context)
	if !ok {
		return nil
	}

	v, exists := gCtx.Get(USERKEY)
	if !exists {
		return nil
	}
	user, ok := v.(*model.UserData)
	if !ok {
		return nil
	}
	return user
}

func abort(ctx *gin.Context, err error) {
	common.ReplyErr(ctx, err)
	ctx.Abort()
}
