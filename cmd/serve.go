package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reachpoint/provider-verify/internal/pipeline"
	"github.com/reachpoint/provider-verify/internal/verify"
)

var servePort int

// runner is the pipeline surface the HTTP handlers need.
type runner interface {
	Run(ctx context.Context, vc verify.Context) (verify.Decision, error)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verification HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		v, cleanup, err := buildVerifier(ctx, false, false)
		if err != nil {
			return err
		}
		defer cleanup()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(v),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(v runner) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/verify", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ProviderName string `json:"provider_name"`
			PracticeName string `json:"practice_name"`
			Location     string `json:"location"`
			Specialty    string `json:"specialty"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		vc := verify.Context{
			ProviderName: body.ProviderName,
			PracticeName: body.PracticeName,
			Location:     body.Location,
			Specialty:    body.Specialty,
		}
		if err := vc.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		decision, err := v.Run(req.Context(), vc)
		if err != nil {
			zap.L().Error("verify request failed",
				zap.String("provider", vc.ProviderName),
				zap.Error(err),
			)
			if eris.Is(err, pipeline.ErrSearchUnavailable) {
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "search unavailable"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "verification failed"})
			return
		}

		writeJSON(w, http.StatusOK, decision)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
