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

// Package config loads application settings from YAML and PANACHE_*
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/tomoncle/panache/database"
	"github.com/tomoncle/panache/utils"
)

// EnvPrefix prefixes every environment override, e.g.
// PANACHE_DATABASE_CONNECTION_HOST.
const EnvPrefix = "PANACHE"

type Config struct {
	Log      LogConfig       `mapstructure:"log"`
	Database database.Config `mapstructure:"database"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Load reads path, if non-empty, on top of the defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	conn := c.Database.ConnectionConfig
	switch conn.Type {
	case "sqlite", "sqlite3":
		if conn.DBName == "" {
			return fmt.Errorf("database.connection.dbname is required")
		}
	case "mysql", "postgres", "postgresql":
		if conn.Host == "" || conn.DBName == "" {
			return fmt.Errorf("database.connection.host and dbname are required for %s", conn.Type)
		}
	default:
		return fmt.Errorf("unsupported database.connection.type %q", conn.Type)
	}
	return nil
}

// ApplyLogging configures the shared loggers from c.Log.
func (c *Config) ApplyLogging() {
	utils.ConfigureConsoleLogFormat(c.Log.Format)
	utils.ConfigureLogLevel(c.Log.Level)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	d := database.DefaultConnectionConfig()
	v.SetDefault("database.connection.type", d.Type)
	v.SetDefault("database.connection.host", "")
	v.SetDefault("database.connection.port", 0)
	v.SetDefault("database.connection.username", "")
	v.SetDefault("database.connection.password", "")
	v.SetDefault("database.connection.dbname", d.DBName)
	v.SetDefault("database.connection.sslmode", "")
	v.SetDefault("database.connection.max_idle_conns", d.MaxIdleConns)
	v.SetDefault("database.connection.max_open_conns", d.MaxOpenConns)
	v.SetDefault("database.connection.conn_max_lifetime", d.ConnMaxLifetime)
	v.SetDefault("database.connection.conn_max_idle_time", d.ConnMaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", d.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", d.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", d.WriteTimeout)
	v.SetDefault("database.connection.enable_query_log", d.EnableQueryLog)
	v.SetDefault("database.connection.query_log_style", string(d.QueryLogStyle))
	v.SetDefault("database.connection.slow_query_time", d.SlowQueryTime)
	v.SetDefault("database.migrate.enable_migrate_on_startup", true)
	v.SetDefault("database.init.auto_init_on_migration", false)
	v.SetDefault("database.init.filepath", "configs/fixtures")
	v.SetDefault("database.init.environment", utils.EnvDefaultString("APP_ENV", "development"))
}
