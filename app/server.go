package app

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xeniter/romygo/api/robots"
)

// routes builds the API mux: the robot endpoints next to ping and the
// prometheus scrape handler.
func (s *Service) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Errorf("write pong: %v", err)
		}
	})
	mux.Handle("/api/robots/status", robots.NewStatusHandler(s.store))
	mux.Handle("/api/robots/history", robots.NewHistoryHandler(s.hist, s.cfg.API.Token))
	mux.Handle("/api/robots/command", robots.NewCommandHandler(s.Commander, s.cfg.API.Token))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// serveAPI runs the API server until the context is canceled.
func (s *Service) serveAPI(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.API.Address, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("api listening on %s", s.cfg.API.Address)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
