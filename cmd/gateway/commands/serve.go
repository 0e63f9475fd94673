package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/c0pper/data-driven-blog/internal/httpserver"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, logger, err := newState(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Warnf("incomplete configuration: %v", err)
	}
	if cfg.Journiv.ExhaustivePaging {
		logger.Infof("journiv exhaustive paging enabled")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: httpserver.NewRouter(st), ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Infof("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.Errorf("server error: %v", err)
		}
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
