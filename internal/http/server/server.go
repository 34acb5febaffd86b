package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"pdfcatalog/internal/config"
	"pdfcatalog/internal/http/handlers/pdfs"
	"pdfcatalog/internal/http/handlers/session"
	"pdfcatalog/internal/http/handlers/user"
	"pdfcatalog/internal/http/middleware"
	"pdfcatalog/internal/models"
	utils "pdfcatalog/internal/utils/http_errors"
	"time"

	"github.com/gorilla/mux"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	catalogService CatalogService,
	authService AuthService,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, authService, catalogService)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(r *mux.Router, log *slog.Logger, auth AuthService, catalog CatalogService) {
	// POST user
	r.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		token := vars["token"]
		session.Delete(ctx, log, w, r, token, auth)
	}).Methods(http.MethodDelete)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, auth))

	// POST pdf
	protected.HandleFunc("/api/pdfs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		pdfs.Upload(ctx, log, w, r, catalog)
	}).Methods(http.MethodPost)

	// GET pdfs (search)
	protected.HandleFunc("/api/pdfs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		pdfs.Get(ctx, log, w, r, catalog)
	}).Methods(http.MethodGet)

	// GET pdf content by id
	protected.HandleFunc("/api/pdfs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		pdfs.GetByID(ctx, log, w, r, docID, catalog)
	}).Methods(http.MethodGet)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
