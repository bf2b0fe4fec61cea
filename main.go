package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	auth "Floe/internal/auth"
	iceload "Floe/internal/calc/iceload"
	lindqvist "Floe/internal/calc/lindqvist"
	batch "Floe/internal/calc/premium/batch"
	importer "Floe/internal/calc/premium/importer"
	report "Floe/internal/calc/report"
	"Floe/internal/config"
	"Floe/internal/observability"
)

var wg sync.WaitGroup

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func HandleList(router *mux.Router, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) {
	authEnv := auth.NewAuthenv(cfg.TokenKey, cfg.AccessKeyHash, cfg.TokenTTL, logger)
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.HandleFunc("/token", authEnv.TokenHandler).Methods("POST")

	tools := api.PathPrefix("/tools").Subrouter()
	tools.Use(authEnv.AuthMiddleware)

	lindqvistH := &lindqvist.Handler{Metrics: metrics, Logger: logger}
	iceloadH := &iceload.Handler{Metrics: metrics, Logger: logger}
	batchH := &batch.Handler{Metrics: metrics, Logger: logger}
	importerH := &importer.Handler{Metrics: metrics, Logger: logger}
	reportH := report.NewHandler(clock, cfg.ReportAuthor, logger)

	tools.HandleFunc("/lindqvist/calc", lindqvistH.Calc).Methods("POST")
	tools.HandleFunc("/iceload/calc", iceloadH.Calc).Methods("POST")
	tools.HandleFunc("/batch/resistance", batchH.Resistance).Methods("POST")
	tools.HandleFunc("/batch/sweep", batchH.Sweep).Methods("POST")
	tools.HandleFunc("/import/resistance", importerH.Resistance).Methods("POST")
	tools.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)
	if err := cfg.RequireServer(); err != nil {
		logger.Error("invalid server config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	router := mux.NewRouter()
	HandleList(router, cfg, logger, observability.NewMetrics(), clockwork.NewRealClock())

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "tls", cfg.TLSEnabled())
		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}
