//
// News
// ====
// REST backend for a news site: articles with categories, authors, views,
// likes and comments, stored in MongoDB.
//
// Print the generated route docs:
// -------------------------------
// $ go run . -routes
//
// Boot the server with fixture data in memory:
// --------------------------------------------
// $ NEWS_JWT_SECRET=dev go run . -store memory -seed
//
// Mint a token for the fixture admin:
// -----------------------------------
// $ TOKEN=$(go run ./cmd/newsctl token --secret dev --user 65f1c0de0000000000000001 --role admin)
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/ping
// pong
//
// $ curl 'http://localhost:3333/api/news?page=1&limit=2&search=quantum'
// {"news":[{"id":"...","title":"Quantum Computing Milestone Achieved",...}],"currentPage":1,"totalPages":1,"totalNews":1}
//
// $ curl -H "Authorization: Bearer $TOKEN" -H 'Content-Type: application/json' \
//     -d '{"title":"Hi","excerpt":"e","content":"c","category":"technology","image":"https://x/y.jpg"}' \
//     http://localhost:3333/api/news
// {"id":"...","title":"Hi",...,"author":"65f1c0de0000000000000001",...}
//
// $ curl -X POST -H "Authorization: Bearer $TOKEN" http://localhost:3333/api/news/<id>/like
// {"likes":["65f1c0de0000000000000001"]}
//
// $ curl http://localhost:9999/metrics
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/news/internal/article"
	"github.com/SergeyParamoshkin/news/internal/auth"
	"github.com/SergeyParamoshkin/news/internal/config"
	"github.com/SergeyParamoshkin/news/internal/logging"
	"github.com/SergeyParamoshkin/news/internal/metrics"
	"github.com/SergeyParamoshkin/news/internal/ratelimit"
	"github.com/SergeyParamoshkin/news/internal/seed"
)

const (
	limiterIdle    = 10 * time.Minute
	limiterSweep   = time.Minute
	connectTimeout = 10 * time.Second
	healthTimeout  = 2 * time.Second
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      config.Config

	store   article.Store
	metrics *metrics.Metrics
	authn   *auth.Authenticator
	limiter *ratelimit.Limiter

	// draining is set once shutdown starts so load balancers stop routing here.
	draining *atomic.Bool
}

func newApp(cfg config.Config, sugar *zap.SugaredLogger, store article.Store) (*App, error) {
	m, err := metrics.New(config.ServiceName, prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	return &App{
		sugarLogger: sugar,
		config:      cfg,
		store:       store,
		metrics:     m,
		authn:       auth.New(cfg.JWTSecret),
		limiter:     ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, limiterIdle),
		draining:    atomic.NewBool(false),
	}, nil
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to read .env: %v", err)
	}

	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Development, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	// Passing -routes to the program will generate docs for the router
	// definition and exit.
	if cfg.Routes {
		a, err := newApp(cfg, sugar, article.NewMemoryStore())
		if err != nil {
			sugar.Fatalw("failed to build router", "error", err)
		}
		fmt.Println(docgen.MarkdownRoutesDoc(a.Router(), docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/news",
			Intro:       "Routes of the news REST API.",
		}))

		return
	}

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("news stopped", "error", err)
	}
}

func run(cfg config.Config, sugar *zap.SugaredLogger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, sugar)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, sugar, store)
	if err != nil {
		return multierr.Append(err, store.Close(context.Background()))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       time.Minute,
	}
	// no write timeout: pprof profiles stream for longer
	diag := &http.Server{Addr: cfg.DiagAddr, Handler: a.DiagRouter(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 2)
	serve := func(name string, s *http.Server) {
		sugar.Infow("listening", "server", name, "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go serve("api", srv)
	go serve("diag", diag)
	go a.sweepLimiter(ctx)

	select {
	case <-ctx.Done():
		sugar.Infow("shutting down")
	case err = <-errCh:
		sugar.Errorw("server failed", "error", err)
	}

	a.draining.Store(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return multierr.Combine(
		err,
		srv.Shutdown(shutdownCtx),
		diag.Shutdown(shutdownCtx),
		a.metrics.Shutdown(shutdownCtx),
		store.Close(shutdownCtx),
	)
}

func openStore(ctx context.Context, cfg config.Config, sugar *zap.SugaredLogger) (article.Store, error) {
	if cfg.Store == config.StoreMemory {
		store := article.NewMemoryStore()
		if cfg.Seed {
			res, err := seed.Load(ctx, store, false)
			if err != nil {
				return nil, err
			}
			sugar.Infow("fixtures loaded", "categories", res.Categories, "users", res.Users, "articles", res.Articles)
		}

		return store, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	store, err := article.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(connectCtx); err != nil {
		return nil, multierr.Append(err, store.Close(ctx))
	}
	sugar.Infow("connected to mongo", "database", cfg.MongoDatabase)

	return store, nil
}

// Router builds the public API router.
func (a *App) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(a.sugarLogger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(a.metrics.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("root.")); err != nil {
			logging.FromContext(r.Context()).Errorw(err.Error())
		}
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Debugw("ping")
		if _, err := w.Write([]byte("pong")); err != nil {
			logging.FromContext(r.Context()).Errorw(err.Error())
		}
	})

	r.Get("/healthz", a.Healthz)

	r.Route("/api/news", func(r chi.Router) {
		r.Use(a.authn.Verifier)
		r.Mount("/", article.NewAPI(article.NewService(a.store), a.metrics, a.limiter.Middleware).Routes())
	})

	return r
}

// DiagRouter serves metrics and profiling on the diagnostics address.
func (a *App) DiagRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/metrics", a.metrics.Handler().ServeHTTP)
	r.Mount("/debug", middleware.Profiler())

	return r
}

// Healthz reports whether the store answers.
func (a *App) Healthz(w http.ResponseWriter, r *http.Request) {
	if a.draining.Load() {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, render.M{"status": "draining"})

		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		logging.FromContext(r.Context()).Warnw("store ping failed", "error", err)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, render.M{"status": "unavailable"})

		return
	}

	render.JSON(w, r, render.M{"status": "ok"})
}

func (a *App) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.limiter.Sweep(); n > 0 {
				a.sugarLogger.Debugw("rate limiter swept", "clients", n)
			}
		}
	}
}
