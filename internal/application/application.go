package application

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/tank-cascade/internal/api"
	"github.com/eugenenazirov/tank-cascade/internal/calculator"
	"github.com/eugenenazirov/tank-cascade/internal/config"
	"github.com/eugenenazirov/tank-cascade/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage    storage.Storage
	calculator calculator.Calculator
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := seedSystems(store, cfg.Systems); err != nil {
		return nil, fmt.Errorf("failed to seed tank systems: %w", err)
	}

	calc := calculator.New()
	handler := api.NewHandler(calc, store,
		api.WithBatchLimits(cfg.BatchMaxSystems, cfg.BatchWorkers),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	logger.Info("application initialized",
		zap.Int("seeded_systems", len(cfg.Systems)),
		zap.Int("batch_max_systems", cfg.BatchMaxSystems),
		zap.Int("batch_workers", cfg.BatchWorkers),
	)

	return &App{
		storage:    store,
		calculator: calc,
		handler:    handler,
		router:     apiRouter,
		logger:     logger,
		server:     NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// BuildRootHandler routes API requests and answers the root path with a short
// service description.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, serviceDescription)
	}))
	return mux
}

const serviceDescription = `tank-cascade: incident timings for a linear cascade of tanks

POST   /api/timings                 {"tankCount","inflowRate","capacities"}
POST   /api/timings/batch           {"systems":[...]}
GET    /api/systems
PUT    /api/systems/{name}
GET    /api/systems/{name}
DELETE /api/systems/{name}
GET    /api/systems/{name}/timings
GET    /api/health
`

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

func seedSystems(store storage.Storage, systems map[string]calculator.TankSystem) error {
	names := make([]string, 0, len(systems))
	for name := range systems {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := store.Put(name, systems[name]); err != nil {
			return fmt.Errorf("system %q: %w", name, err)
		}
	}
	return nil
}
