package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/locallibrary/internal/config"
)

// sqlite options for the queue file: WAL so workers and the enqueuing
// request do not block each other.
const queueDSNOptions = "_journal=WAL&_timeout=5000&_busy_timeout=5000"

// Client runs background jobs on a backlite queue stored in its own SQLite file.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int
	running atomic.Bool
}

// TasksDBPath places the queue database next to the catalog database:
// "library.db" becomes "library-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	stem := strings.TrimSuffix(filepath.Base(mainDBPath), ext)
	if ext == "" {
		ext = ".db"
	}
	return filepath.Join(filepath.Dir(mainDBPath), stem+"-tasks"+ext)
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?"+queueDSNOptions)
	if err != nil {
		return nil, fmt.Errorf("open task queue %s: %w", path, err)
	}
	// one connection per worker plus headroom for enqueues and status reads
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// ResolveDBPath picks the queue file. An explicit path wins; otherwise it sits
// next to the sqlite catalog file. A postgres catalog has no file of its own,
// so the sqlite default path is used as the base.
func ResolveDBPath(tasksCfg config.Tasks, dbCfg config.Database) string {
	if tasksCfg.DBPath != "" {
		return tasksCfg.DBPath
	}
	base := dbCfg.Path
	if dbCfg.Driver == "postgres" || base == "" {
		base = config.DefaultDatabasePath
	}
	return TasksDBPath(base)
}

// NewClient opens the queue database at path and installs the backlite schema.
func NewClient(path string, cfg Config) (*Client, error) {
	db, err := openQueueDB(path, cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init task queue: %w", err)
	}

	return &Client{queue: queue, db: db, workers: cfg.Workers}, nil
}

// Register adds queues to the client. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start begins processing tasks. Non-blocking; repeated calls are ignored.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	log.Printf("[TASK] Queue started with %d workers", c.workers)
	c.queue.Start(ctx)
}

// Stop waits for running tasks to finish. Returns false if ctx expired first.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}
	log.Println("[TASK] Stopping queue...")
	if ok := c.queue.Stop(ctx); !ok {
		log.Println("[TASK] Queue stop timed out, some tasks may not have completed")
		return false
	}
	return true
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Ping checks the queue database.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Enqueue saves a single task and returns its ID.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	ids, err := c.queue.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	return ids[0], nil
}

// Status returns the state of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// queueLogger routes backlite's log lines through the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
