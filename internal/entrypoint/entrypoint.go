package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/config"
	"github.com/mrlokans/locallibrary/internal/database"
	auditRepo "github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/database/authors"
	"github.com/mrlokans/locallibrary/internal/database/books"
	"github.com/mrlokans/locallibrary/internal/database/genres"
	"github.com/mrlokans/locallibrary/internal/database/instances"
	http_controllers "github.com/mrlokans/locallibrary/internal/http"
	"github.com/mrlokans/locallibrary/internal/metrics"
	"github.com/mrlokans/locallibrary/internal/scheduler"
	"github.com/mrlokans/locallibrary/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired components of a running catalog.
type App struct {
	DB        *database.Database
	Catalog   *catalog.Service
	Audit     *audit.Service
	Metrics   *metrics.Metrics
	Tasks     *tasks.Client
	Scheduler *scheduler.AuditCleanupScheduler
}

// NewApp opens the database and builds the catalog with whatever optional
// components cfg enables. Background workers are not started.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	app := &App{DB: db}
	var opts []catalog.Option

	if cfg.Audit.Enabled {
		app.Audit = audit.NewService(auditRepo.NewRepository(db.DB))
		opts = append(opts, catalog.WithObserver(app.Audit))
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		app.Metrics = metrics.New(reg)
		opts = append(opts, catalog.WithObserver(app.Metrics))
	}

	app.Catalog = catalog.NewService(catalog.Stores{
		Authors:   authors.NewRepository(db.DB),
		Genres:    genres.NewRepository(db.DB),
		Books:     books.NewRepository(db.DB),
		Instances: instances.NewRepository(db.DB),
	}, opts...)

	if cfg.Tasks.Enabled && app.Audit != nil {
		if err := scheduler.ValidateSchedule(cfg.Audit.CleanupSchedule); err != nil {
			app.Close()
			return nil, err
		}

		queuePath := tasks.ResolveDBPath(cfg.Tasks, cfg.Database)
		log.Printf("[TASK] Queue database: %s", queuePath)
		client, err := tasks.NewClient(queuePath, tasks.FromConfig(cfg.Tasks))
		if err != nil {
			app.Close()
			return nil, err
		}
		client.Register(tasks.NewCleanupAuditEventsQueue(app.Audit))
		app.Tasks = client
		app.Scheduler = scheduler.NewAuditCleanupScheduler(client, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
	}

	return app, nil
}

// Router builds the HTTP router. Optional components are only handed over
// when present so that absent ones stay nil interfaces.
func (a *App) Router(cfg *config.Config, version string) *gin.Engine {
	routerCfg := http_controllers.RouterConfig{
		Catalog:        a.Catalog,
		Database:       a.DB,
		MetricsPath:    cfg.Metrics.Path,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Version:        version,
	}
	if a.Audit != nil {
		routerCfg.AuditReader = a.Audit
	}
	if a.Metrics != nil {
		routerCfg.Metrics = a.Metrics
	}
	if a.Tasks != nil && a.Scheduler != nil {
		routerCfg.CleanupTrigger = a.Scheduler
		routerCfg.TaskStatus = a.Tasks
		routerCfg.TaskQueue = a.Tasks
	}
	return http_controllers.NewRouter(routerCfg)
}

// Start launches the task workers and the cleanup schedule.
func (a *App) Start(ctx context.Context) error {
	if a.Tasks == nil {
		return nil
	}
	a.Tasks.Start(ctx)
	if err := a.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start audit cleanup scheduler: %w", err)
	}
	if next := a.Scheduler.GetNextRunTime(); next != nil {
		log.Printf("Audit cleanup scheduled, next run at %s", next.Format(time.RFC3339))
	}
	return nil
}

// Shutdown stops background work, waits for pending audit writes and closes
// the databases.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
	}
	if a.Audit != nil {
		a.Audit.Flush()
	}
	a.Close()
}

// Close releases the catalog and queue databases.
func (a *App) Close() {
	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Failed to close tasks database: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, kill (no param) is SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Local Library v%s", version)

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		app.Close()
		log.Fatalf("Failed to start background tasks: %v", err)
	}

	router := app.Router(cfg, version)

	Serve(router, cfg, func(shutdownCtx context.Context) {
		cancel()
		app.Shutdown(shutdownCtx)
	})
}
