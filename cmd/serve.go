package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgeline-geo/elevation-cli/internal/elevation"
)

var servePort int

// elevationAPI is the service surface the handlers need; the tests swap in
// a fake.
type elevationAPI interface {
	GetElevation(ctx context.Context, req elevation.LookupRequest) (*elevation.Surface, error)
	GetElevationBatch(ctx context.Context, req elevation.BatchRequest) (*elevation.BatchResult, error)
}

// apiDefaults fill request fields the query string leaves out.
type apiDefaults struct {
	Year       int
	Resolution string
	Zoom       int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the elevation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		defaults := apiDefaults{
			Year:       cfg.Boundary.Year,
			Resolution: cfg.Boundary.Resolution,
			Zoom:       cfg.Terrain.Zoom,
		}
		router := newRouter(newService(), defaults)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(svc elevationAPI, defaults apiDefaults) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/v1/elevation", func(w http.ResponseWriter, r *http.Request) {
		req, err := lookupFromQuery(r, defaults)
		if err != nil {
			writeError(w, err)
			return
		}
		surface, err := svc.GetElevation(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, surface)
	})

	r.Get("/v1/elevation/map", func(w http.ResponseWriter, r *http.Request) {
		req, err := lookupFromQuery(r, defaults)
		if err != nil {
			writeError(w, err)
			return
		}
		surface, err := svc.GetElevation(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := elevation.WriteMapPNG(w, surface, elevation.MapOptions{}); err != nil {
			zap.L().Error("map render failed", zap.String("geoid", surface.GEOID), zap.Error(err))
		}
	})

	r.Get("/v1/elevation/batch", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := elevation.BatchRequest{
			Level:      q.Get("level"),
			StateFIPS:  q.Get("state"),
			CountyFIPS: q.Get("county"),
		}
		var err error
		if req.Year, err = intQuery(q.Get("year"), defaults.Year); err != nil {
			writeError(w, err)
			return
		}
		if req.Zoom, err = intQuery(q.Get("zoom"), defaults.Zoom); err != nil {
			writeError(w, err)
			return
		}
		req.Resolution = orString(q.Get("resolution"), defaults.Resolution)

		result, err := svc.GetElevationBatch(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return r
}

func lookupFromQuery(r *http.Request, defaults apiDefaults) (elevation.LookupRequest, error) {
	q := r.URL.Query()
	req := elevation.LookupRequest{
		Level: q.Get("level"),
		GEOID: q.Get("geoid"),
	}
	var err error
	if req.Year, err = intQuery(q.Get("year"), defaults.Year); err != nil {
		return req, err
	}
	if req.Zoom, err = intQuery(q.Get("zoom"), defaults.Zoom); err != nil {
		return req, err
	}
	req.Resolution = orString(q.Get("resolution"), defaults.Resolution)
	return req, nil
}

func intQuery(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Wrapf(elevation.ErrInvalidInput, "numeric query parameter %q", raw)
	}
	return n, nil
}

// requestID tags each request with a UUID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		zap.L().Debug("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

// statusFor maps service failure kinds to HTTP status codes.
func statusFor(err error) int {
	switch elevation.Kind(err) {
	case "invalid_input":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "no_coverage":
		return http.StatusUnprocessableEntity
	case "retrieval_failure":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{
		"error": err.Error(),
		"kind":  elevation.Kind(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
