package core

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-pkgz/routegroup"

	"github.com/VictorCainj/doc-forge-audit/internal/config"
)

type ApiVersion string

type GroupSetupFn func(group *routegroup.Bundle)

type ApiEndpointSetupFunc func() (ApiVersion, GroupSetupFn)

type Server struct {
	cfg      *config.Config
	server   *routegroup.Bundle
	versions map[ApiVersion]*routegroup.Bundle
}

func NewServer(cfg *config.Config, endpoints ...ApiEndpointSetupFunc) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		server:   routegroup.New(http.NewServeMux()),
		versions: make(map[ApiVersion]*routegroup.Bundle),
	}

	s.server.Use(recoveryMiddleware)
	if cfg.Web.RequestLogging {
		s.server.Use(loggingMiddleware)
	}

	for _, setupFunc := range endpoints {
		version, groupSetupFn := setupFunc()
		if _, ok := s.versions[version]; !ok {
			s.versions[version] = s.server.Mount("/api/" + string(version))
		}
		groupSetupFn(s.versions[version])
	}

	return s, nil
}

// Run starts the web service. The function blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, listenAddress string) {
	srv := &http.Server{
		Addr:    listenAddress,
		Handler: s.server,
	}

	srvContext, cancelFn := context.WithCancel(ctx)
	go func() {
		var err error
		if s.cfg.Web.CertFile != "" && s.cfg.Web.KeyFile != "" {
			err = srv.ListenAndServeTLS(s.cfg.Web.CertFile, s.cfg.Web.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil {
			slog.Info("web service exited", "address", listenAddress, "error", err)
			cancelFn()
		}
	}()
	slog.Info("started web service", "address", listenAddress)

	<-srvContext.Done()

	slog.Debug("web service shutting down, grace period: 5 seconds")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while handling request",
					"method", r.Method, "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
