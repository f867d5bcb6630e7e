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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

var (
	globalMu      sync.RWMutex
	globalManager Manager
	globalConfig  *Config
)

// GetDB returns the global Bun database instance, nil before InitDB.
func GetDB() *bun.DB {
	if m := GetDatabaseManager(); m != nil {
		return m.GetDB()
	}
	return nil
}

// GetDatabaseManager returns the global database manager, nil before InitDB.
func GetDatabaseManager() Manager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// InitDB initializes the global database using the provided configuration.
func InitDB(cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	return InitDatabaseWithOptions(cfg, cfg.DataMigrateConfig.EnableMigrateOnStartup)
}

// InitDatabaseWithOptions connects the global database and optionally runs
// migrations. A previously initialized database is closed first; on failure
// no global database remains.
func InitDatabaseWithOptions(cfg *Config, runMigrations bool) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	globalMu.Lock()
	defer globalMu.Unlock()

	var closeErr error
	if globalManager != nil {
		closeErr = globalManager.Close()
		globalManager, globalConfig = nil, nil
	}
	if err := cfg.ConnectionConfig.ApplyEnv(); err != nil {
		return nil, err
	}

	manager := NewManager(&cfg.ConnectionConfig, GetLogger())
	if err := manager.Connect(context.Background()); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to initialize database: %w", err), closeErr)
	}
	globalConfig = cfg
	if runMigrations {
		if err := manager.RunMigrations(context.Background()); err != nil {
			globalConfig = nil
			return nil, errors.Join(fmt.Errorf("failed to initialize database: %w", err), manager.Close())
		}
	}
	globalManager = manager

	db := manager.GetDB()
	db.RegisterModel(RegisteredModelInstances()...)
	return db, nil
}

// CloseDB closes and forgets the global database connection.
func CloseDB() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalManager == nil {
		return nil
	}
	err := globalManager.Close()
	globalManager, globalConfig = nil, nil
	return err
}

// GetHealthStatus returns the current database health status.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	m := GetDatabaseManager()
	if m == nil {
		return &HealthStatus{LastError: "Database not initialized", LastCheckTime: time.Now()}
	}
	return m.HealthCheck(ctx)
}

// GetDatabaseStats returns global database statistics.
func GetDatabaseStats() *DBStats {
	m := GetDatabaseManager()
	if m == nil {
		return &DBStats{}
	}
	return m.GetStats()
}

// RunMigrations executes migrations against the global database.
func RunMigrations(ctx context.Context) error {
	m := GetDatabaseManager()
	if m == nil {
		return fmt.Errorf("database not initialized")
	}
	return m.RunMigrations(ctx)
}
