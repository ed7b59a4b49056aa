package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GustavoCaso/bookcatalog/internal/cli"
	"github.com/GustavoCaso/bookcatalog/internal/config"
	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/router"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

const (
	sessionCleanupInterval = time.Hour
	shutdownTimeout        = 10 * time.Second
)

type webCommand struct {
	port       string
	timeout    time.Duration
	liveReload bool
}

func NewCommand() cli.Command {
	return &webCommand{}
}

func (c *webCommand) Description() string {
	return "Serve the book catalog web interface"
}

// SetFlags registers the flags. Empty values fall back to the server
// configuration.
func (c *webCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.port, "p", "", "port (defaults to the configured port)")
	fs.DurationVar(&c.timeout, "t", 0, "read header timeout (defaults to the configured timeout)")
	fs.BoolVar(&c.liveReload, "r", false, "reload templates from disk on every request")
}

func (c *webCommand) Run(conf *config.Config, s storage.Storage, logger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []router.Option
	if c.liveReload {
		opts = append(opts, router.WithLiveReload())
	}

	handler, _ := router.New(s, logger, opts...)
	server := c.newServer(conf.Server, handler)

	go cleanupSessions(ctx, s, logger, sessionCleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Open the catalog", "url", fmt.Sprintf("http://localhost%s/products", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func (c *webCommand) newServer(conf config.ServerConfig, handler http.Handler) *http.Server {
	port := conf.Port
	if c.port != "" {
		port = c.port
	}

	timeout := conf.ReadHeaderTimeout
	if c.timeout > 0 {
		timeout = c.timeout
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		ReadHeaderTimeout: timeout,
		Handler:           handler,
	}
}

// cleanupSessions removes expired sessions every interval until ctx is done.
func cleanupSessions(ctx context.Context, s storage.Storage, logger *logger.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.DeleteExpiredSessions(ctx); err != nil {
				logger.Error("Failed to delete expired sessions", "error", err)
				continue
			}
			logger.Debug("Deleted expired sessions")
		}
	}
}
