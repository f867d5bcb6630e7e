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

import "time"

// HealthStatus is the outcome of a single ping against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors the database/sql pool statistics.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// QueryLogStyle selects the hook used when query logging is enabled.
type QueryLogStyle string

const (
	QueryLogColor    QueryLogStyle = "color"
	QueryLogBunDebug QueryLogStyle = "bundebug"
)

// ConnectionConfig describes how to connect to a database and tune its pool.
type ConnectionConfig struct {
	Type            string        `mapstructure:"type" json:"type"` // postgres, mysql, sqlite
	Host            string        `mapstructure:"host" json:"host"`
	Port            int           `mapstructure:"port" json:"port"`
	Username        string        `mapstructure:"username" json:"username"`
	Password        string        `mapstructure:"password" json:"-"`
	DBName          string        `mapstructure:"dbname" json:"dbname"` // file path without ".db" for sqlite, ":memory:" for in-process
	SSLMode         string        `mapstructure:"sslmode" json:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" json:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" json:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" json:"connect_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	EnableQueryLog  bool          `mapstructure:"enable_query_log" json:"enable_query_log"`
	QueryLogStyle   QueryLogStyle `mapstructure:"query_log_style" json:"query_log_style"`
	SlowQueryTime   time.Duration `mapstructure:"slow_query_time" json:"slow_query_time"`
}

// DataMigrateConfig controls schema migration on startup.
type DataMigrateConfig struct {
	EnableMigrateOnStartup bool `mapstructure:"enable_migrate_on_startup" json:"enable_migrate_on_startup"`
}

// DataInitConfig controls fixture seeding.
type DataInitConfig struct {
	AutoInitOnMigration bool   `mapstructure:"auto_init_on_migration" json:"auto_init_on_migration"`
	Filepath            string `mapstructure:"filepath" json:"filepath"`
	Environment         string `mapstructure:"environment" json:"environment"`
}

// Config aggregates connection, migration, and data initialization settings.
type Config struct {
	ConnectionConfig  ConnectionConfig  `mapstructure:"connection" json:"connection_config"`
	DataMigrateConfig DataMigrateConfig `mapstructure:"migrate" json:"data_migrate_config"`
	DataInitConfig    DataInitConfig    `mapstructure:"init" json:"data_init_config"`
}

// DefaultConnectionConfig returns a file-backed sqlite configuration.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:            "sqlite",
		DBName:          "panache",
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		QueryLogStyle:   QueryLogColor,
		SlowQueryTime:   2 * time.Second,
	}
}
