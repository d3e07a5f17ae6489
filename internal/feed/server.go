package feed

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/officewalk/internal/logger"
)

// Handler upgrades requests to websocket clients of the hub. Client messages
// are read and discarded; the read loop only detects disconnects.
func Handler(h *Hub) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logger.Warn("Feed upgrade failed", zap.Error(err))
			return
		}
		ctx := r.Context()
		if err := h.Add(ctx, conn); err != nil {
			logger.Debug("Feed client dropped", zap.Error(err))
			conn.Close(websocket.StatusInternalError, "replay failed")
			return
		}
		defer h.Remove(conn)
		defer conn.Close(websocket.StatusNormalClosure, "")

		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	})
}

// Serve runs the feed endpoint and the hub until ctx is cancelled.
func Serve(ctx context.Context, cfg Config, h *Hub) error {
	mux := http.NewServeMux()
	path := cfg.Path
	if path == "" {
		path = DefaultConfig().Path
	}
	mux.Handle(path, Handler(h))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go h.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Location feed listening", zap.String("addr", cfg.Addr), zap.String("path", path))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
