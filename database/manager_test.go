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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConn() *ConnectionConfig {
	cfg := DefaultConnectionConfig()
	cfg.DBName = MemoryDBName
	return cfg
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(memoryConn(), nil)
	ctx := context.Background()

	assert.Nil(t, m.GetDB())
	assert.False(t, m.HealthCheck(ctx).Healthy)
	assert.Error(t, m.RunMigrations(ctx))

	require.NoError(t, m.Connect(ctx))
	db := m.GetDB()
	require.NotNil(t, db)
	require.NoError(t, m.Connect(ctx))
	assert.Same(t, db, m.GetDB())

	health := m.HealthCheck(ctx)
	assert.True(t, health.Healthy)
	assert.True(t, health.Connected)
	assert.Empty(t, health.LastError)
	assert.Equal(t, 1, health.MaxOpenConns)
	assert.Equal(t, 1, m.GetStats().MaxOpenConns)

	require.NoError(t, m.Close())
	assert.Nil(t, m.GetDB())
	assert.Error(t, db.PingContext(ctx))
	assert.NoError(t, m.Close())
	assert.Equal(t, &DBStats{}, m.GetStats())
}

func TestManagerRejectsUnknownType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"
	err := NewManager(cfg, nil).Connect(context.Background())
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestConnectionConfigDSN(t *testing.T) {
	cfg := &ConnectionConfig{
		Type: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p",
		DBName: "people", ConnectTimeout: 10 * time.Second,
	}
	name, dsn, _, err := cfg.driver()
	require.NoError(t, err)
	assert.Equal(t, "postgres", name)
	assert.Equal(t, "postgres://u:p@db:5432/people?sslmode=disable&connect_timeout=10", dsn)

	cfg.Type = "mysql"
	_, dsn, _, err = cfg.driver()
	require.NoError(t, err)
	assert.Contains(t, dsn, "u:p@tcp(db:5432)/people?charset=utf8mb4")

	cfg.Type, cfg.DBName = "sqlite3", "data/people"
	_, dsn, _, err = cfg.driver()
	require.NoError(t, err)
	assert.Equal(t, "data/people.db", dsn)
	assert.False(t, cfg.IsMemory())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := DefaultConnectionConfig()
	cfg.Host = "keep"
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "mysql", cfg.Type)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "keep", cfg.Host)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLifetime)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowQueryTime)
	assert.True(t, cfg.EnableQueryLog)

	t.Setenv("DB_ENABLE_QUERY_LOG", "maybe")
	assert.ErrorContains(t, cfg.ApplyEnv(), `invalid DB_ENABLE_QUERY_LOG="maybe"`)
}
