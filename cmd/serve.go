package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		mux := newMux(ctx, env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newMux builds the API routes. Split out so handler behavior is testable
// without binding a port.
func newMux(ctx context.Context, env *appEnv) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /cases", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string `json:"user_id"`
			Faktum   string `json:"faktum_text"`
			Category string `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Faktum == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "faktum_text is required"})
			return
		}

		c, err := env.Store.CreateCase(r.Context(), req.UserID, req.Faktum, model.LegalCategory(req.Category))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create case failed"})
			return
		}
		writeJSON(w, http.StatusCreated, c)
	})

	mux.HandleFunc("GET /cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		c, err := env.Store.GetCase(r.Context(), r.PathValue("id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	})

	mux.HandleFunc("POST /cases/{id}/clarify", func(w http.ResponseWriter, r *http.Request) {
		inserted, err := env.Pipeline.Clarify(r.Context(), r.PathValue("id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"clarifications": inserted})
	})

	mux.HandleFunc("POST /cases/{id}/analyze", func(w http.ResponseWriter, r *http.Request) {
		caseID := r.PathValue("id")

		// Run the analysis asynchronously; the status lock in the pipeline
		// rejects a duplicate trigger. Use the server context, not the
		// request's, so the run survives the response.
		go func() {
			if err := env.Pipeline.Analyze(ctx, caseID); err != nil {
				zap.L().Error("async analysis failed",
					zap.String("case_id", caseID),
					zap.Error(err),
				)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "accepted",
			"case_id": caseID,
		})
	})

	mux.HandleFunc("GET /cases/{id}/result", func(w http.ResponseWriter, r *http.Request) {
		result, err := env.Store.GetResult(r.Context(), r.PathValue("id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, store.ErrAnalysisInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "analysis already in progress"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
