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

package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/panache/database"
	"github.com/tomoncle/panache/model"
)

func memoryConfig(t *testing.T, seed bool) *database.Config {
	t.Helper()
	conn := database.DefaultConnectionConfig()
	conn.DBName = database.MemoryDBName
	return &database.Config{
		ConnectionConfig:  *conn,
		DataMigrateConfig: database.DataMigrateConfig{EnableMigrateOnStartup: true},
		DataInitConfig: database.DataInitConfig{
			AutoInitOnMigration: seed,
			Filepath:            t.TempDir(),
			Environment:         "test",
		},
	}
}

func TestInitDBRunsMigrations(t *testing.T) {
	cfg := memoryConfig(t, true)
	writeFixture(t, filepath.Join(cfg.DataInitConfig.Filepath, "test", "person.yaml"), personsYAML)

	db, err := database.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })
	require.Same(t, db, database.GetDB())

	ctx := context.Background()
	n, err := db.NewSelect().Model((*model.Person)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	applied, err := database.NewMigrationManager(db, nil).GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "001", applied[0].Version)
	assert.Equal(t, "seed_initial_data", applied[1].Name)

	// applied versions are skipped, so fixtures are not inserted twice
	require.NoError(t, database.RunMigrations(ctx))
	n, err = db.NewSelect().Model((*model.Person)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	health := database.GetHealthStatus(ctx)
	assert.True(t, health.Healthy)
}

func TestCloseDBForgetsGlobal(t *testing.T) {
	_, err := database.InitDatabaseWithOptions(memoryConfig(t, false), true)
	require.NoError(t, err)
	require.NotNil(t, database.GetDB())

	require.NoError(t, database.CloseDB())
	assert.Nil(t, database.GetDB())
	assert.Nil(t, database.GetDatabaseManager())
	assert.Error(t, database.RunMigrations(context.Background()))
	assert.False(t, database.GetHealthStatus(context.Background()).Healthy)
}

func TestInitDBClosesManagerOnMigrationError(t *testing.T) {
	cfg := memoryConfig(t, true)
	writeFixture(t, filepath.Join(cfg.DataInitConfig.Filepath, "test", "person.yaml"), "- {name: Zed, status: zombie}\n")

	db, err := database.InitDB(cfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Nil(t, database.GetDB())
	assert.Nil(t, database.GetDatabaseManager())

	// the failed connection was closed, so the in-memory schema is gone
	db, err = database.InitDatabaseWithOptions(memoryConfig(t, false), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })
	_, err = db.NewSelect().Model((*model.Person)(nil)).Count(context.Background())
	assert.ErrorContains(t, err, "no such table")
}

func TestInitDBClosesPreviousManager(t *testing.T) {
	first, err := database.InitDB(memoryConfig(t, false))
	require.NoError(t, err)

	second, err := database.InitDB(memoryConfig(t, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })
	require.NotSame(t, first, second)
	assert.Same(t, second, database.GetDB())

	ctx := context.Background()
	assert.Error(t, first.PingContext(ctx))
	assert.NoError(t, second.PingContext(ctx))
}

func TestInitDBRejectsBadEnv(t *testing.T) {
	t.Setenv("DB_PORT", "abc")
	_, err := database.InitDB(memoryConfig(t, false))
	assert.ErrorContains(t, err, "DB_PORT")
	assert.Nil(t, database.GetDB())
}
