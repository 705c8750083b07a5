package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	cobra "github.com/spf13/cobra"

	config "github.com/atmolab/gascalc/internal/config"
	db "github.com/atmolab/gascalc/pkg/middleware/db"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	redis "github.com/atmolab/gascalc/pkg/middleware/redis"
	web "github.com/atmolab/gascalc/pkg/web"
)

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         `api server start`,
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         runWeb,
		PostRunE:     cleanWebResource,
	}
}

func initWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	ctx := cmd.Context()

	db.InitPostgres(ctx, &db.Config{
		Host:   conf.Database.Host,
		Port:   conf.Database.Port,
		User:   conf.Database.User,
		PW:     conf.Database.Password,
		DBName: conf.Database.Name,
		LogConf: db.LogConf{
			Level: conf.Log.LogLevel,
		},
	})

	redis.InitRedis(ctx, &redis.Redis{
		Host:     conf.Redis.Host,
		Port:     conf.Redis.Port,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	return nil
}

func runWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	ctx := cmd.Context()

	if conf.Server.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	web.NewRouter(ctx, engine)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "api server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "server shutdown err: %v", err)
		return err
	}
	logger.Infof(ctx, "api server stopped")
	return nil
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	db.ClosePostgres(cmd.Context())
	redis.CloseRedis(cmd.Context())
	return nil
}
