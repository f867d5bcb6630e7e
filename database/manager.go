/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
)

// MemoryDBName selects the in-process sqlite database.
const MemoryDBName = ":memory:"

const defaultConnectTimeout = 30 * time.Second

// Manager owns one Bun connection pool.
type Manager interface {
	Connect(ctx context.Context) error
	Close() error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
	GetStats() *DBStats
	RunMigrations(ctx context.Context) error
}

type bunManager struct {
	cfg    *ConnectionConfig
	logger Logger

	mu sync.RWMutex
	db *bun.DB
}

// NewManager returns an unconnected Manager for cfg. A nil cfg falls back to
// DefaultConnectionConfig and a nil logger to GetLogger.
func NewManager(cfg *ConnectionConfig, logger Logger) Manager {
	if cfg == nil {
		cfg = DefaultConnectionConfig()
	}
	if logger == nil {
		logger = GetLogger()
	}
	return &bunManager{cfg: cfg, logger: logger}
}

// Connect opens the pool and pings it. It is a no-op when already connected.
func (m *bunManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		return nil
	}

	driverName, dsn, dialect, err := m.cfg.driver()
	if err != nil {
		return err
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", m.cfg.Type, err)
	}
	m.cfg.tunePool(sqlDB)

	db := bun.NewDB(sqlDB, dialect)
	m.addHooks(db)

	timeout := m.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("database connection test failed: %w", err)
	}

	m.db = db
	m.logger.Info("Database connected", "type", m.cfg.Type, "host", m.cfg.Host, "dbname", m.cfg.DBName)
	return nil
}

// Close releases the pool. Closing an unconnected manager is a no-op.
func (m *bunManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	if err != nil {
		m.logger.Error("Failed to close database connection", "error", err)
		return err
	}
	m.logger.Info("Database connection closed")
	return nil
}

func (m *bunManager) GetDB() *bun.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

func (m *bunManager) HealthCheck(ctx context.Context) *HealthStatus {
	status := &HealthStatus{LastCheckTime: time.Now()}
	db := m.GetDB()
	if db == nil {
		status.LastError = "database not connected"
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := db.PingContext(pingCtx)
	status.ResponseTime = time.Since(status.LastCheckTime)
	if err != nil {
		status.LastError = err.Error()
	} else {
		status.Healthy, status.Connected = true, true
	}

	stats := db.Stats()
	status.ActiveConns = stats.InUse
	status.IdleConns = stats.Idle
	status.MaxOpenConns = stats.MaxOpenConnections
	return status
}

func (m *bunManager) GetStats() *DBStats {
	db := m.GetDB()
	if db == nil {
		return &DBStats{}
	}
	stats := db.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxIdleTimeClosed: stats.MaxIdleTimeClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

func (m *bunManager) RunMigrations(ctx context.Context) error {
	db := m.GetDB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	return NewMigrationManager(db, m.logger).RunMigrations(ctx)
}

func (m *bunManager) addHooks(db *bun.DB) {
	if m.cfg.EnableQueryLog {
		if m.cfg.QueryLogStyle == QueryLogBunDebug {
			db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true), bundebug.FromEnv("BUNDEBUG")))
		} else {
			db.AddQueryHook(NewQueryHook(os.Stdout, true, "BUNDEBUG"))
		}
	}
	if m.cfg.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{threshold: m.cfg.SlowQueryTime, logger: m.logger})
	}
}

// driver resolves the database/sql driver, DSN and Bun dialect for c.Type.
func (c *ConnectionConfig) driver() (string, string, schema.Dialect, error) {
	switch c.Type {
	case "mysql":
		return "mysql", c.mysqlDSN(), mysqldialect.New(), nil
	case "postgres", "postgresql":
		return "postgres", c.postgresDSN(), pgdialect.New(), nil
	case "sqlite", "sqlite3":
		return sqliteshim.ShimName, c.sqliteDSN(), sqlitedialect.New(), nil
	}
	return "", "", nil, fmt.Errorf("unsupported database type %q, expected mysql, postgres or sqlite", c.Type)
}

func (c *ConnectionConfig) mysqlDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, c.ConnectTimeout, c.ReadTimeout, c.WriteTimeout)
}

func (c *ConnectionConfig) postgresDSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		c.Username, c.Password, c.Host, c.Port, c.DBName, sslMode, int(c.ConnectTimeout.Seconds()))
}

func (c *ConnectionConfig) sqliteDSN() string {
	if c.IsMemory() {
		return "file::memory:?cache=shared"
	}
	return c.DBName + ".db"
}

// IsMemory reports whether c selects the in-process sqlite database.
func (c *ConnectionConfig) IsMemory() bool {
	return (c.Type == "sqlite" || c.Type == "sqlite3") && c.DBName == MemoryDBName
}

func (c *ConnectionConfig) tunePool(db *sql.DB) {
	// the in-memory database is dropped when its last connection closes
	if c.IsMemory() {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)
}

// slowQueryHook warns about successful queries slower than threshold.
type slowQueryHook struct {
	threshold time.Duration
	logger    Logger
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if event.Err != nil {
		return
	}
	if took := time.Since(event.StartTime); took > h.threshold {
		h.logger.Warn("Slow query", "took", took, "threshold", h.threshold, "query", event.Query)
	}
}
