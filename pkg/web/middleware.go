package web

import (
	"context"
	"crypto/subtle"
	"time"

	cors "github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	uuid "github.com/gofrs/uuid/v5"

	config "github.com/atmolab/gascalc/internal/config"
	common "github.com/atmolab/gascalc/pkg/common"
	code "github.com/atmolab/gascalc/pkg/common/code"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
)

const requestIDHeader = "X-Request-Id"

func installMiddleware(g *gin.Engine) {
	g.Use(gin.Recovery())
	g.Use(requestID())
	g.Use(accessLog())
	g.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Async-Token"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// requestID attaches an id to the request context so log lines correlate.
func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader(requestIDHeader)
		if rid == "" {
			if id, err := uuid.NewV7(); err == nil {
				rid = id.String()
			}
		}

		reqCtx := context.WithValue(ctx.Request.Context(), logger.RequestIDKey, rid)
		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Header(requestIDHeader, rid)
		ctx.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Infof(ctx.Request.Context(), "%s %s status=%d cost=%s",
			ctx.Request.Method, ctx.Request.URL.Path,
			ctx.Writer.Status(), time.Since(start))
	}
}

// asyncToken guards the worker results callback with the shared secret. A bad
// token rejects the whole batch before any tuple is touched.
func asyncToken() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		expected := config.Global().Worker.Token
		got := ctx.GetHeader("X-Async-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			common.ReplyErr(ctx, code.AsyncTokenErr)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
