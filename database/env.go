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
	"fmt"
	"os"
	"strconv"
	"time"
)

type envSetting struct {
	key string
	set func(c *ConnectionConfig, v string) error
}

func envString(dst func(*ConnectionConfig) *string) func(*ConnectionConfig, string) error {
	return func(c *ConnectionConfig, v string) error {
		*dst(c) = v
		return nil
	}
}

func envInt(dst func(*ConnectionConfig) *int) func(*ConnectionConfig, string) error {
	return func(c *ConnectionConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			*dst(c) = n
		}
		return err
	}
}

// envDuration accepts a Go duration ("90s") or a whole number of seconds.
func envDuration(dst func(*ConnectionConfig) *time.Duration) func(*ConnectionConfig, string) error {
	return func(c *ConnectionConfig, v string) error {
		if n, err := strconv.Atoi(v); err == nil {
			*dst(c) = time.Duration(n) * time.Second
			return nil
		}
		d, err := time.ParseDuration(v)
		if err == nil {
			*dst(c) = d
		}
		return err
	}
}

func envBool(dst func(*ConnectionConfig) *bool) func(*ConnectionConfig, string) error {
	return func(c *ConnectionConfig, v string) error {
		b, err := strconv.ParseBool(v)
		if err == nil {
			*dst(c) = b
		}
		return err
	}
}

var envSettings = []envSetting{
	{"DB_TYPE", envString(func(c *ConnectionConfig) *string { return &c.Type })},
	{"DB_HOST", envString(func(c *ConnectionConfig) *string { return &c.Host })},
	{"DB_PORT", envInt(func(c *ConnectionConfig) *int { return &c.Port })},
	{"DB_USERNAME", envString(func(c *ConnectionConfig) *string { return &c.Username })},
	{"DB_PASSWORD", envString(func(c *ConnectionConfig) *string { return &c.Password })},
	{"DB_NAME", envString(func(c *ConnectionConfig) *string { return &c.DBName })},
	{"DB_SSLMODE", envString(func(c *ConnectionConfig) *string { return &c.SSLMode })},
	{"DB_MAX_IDLE_CONNS", envInt(func(c *ConnectionConfig) *int { return &c.MaxIdleConns })},
	{"DB_MAX_OPEN_CONNS", envInt(func(c *ConnectionConfig) *int { return &c.MaxOpenConns })},
	{"DB_CONN_MAX_LIFETIME", envDuration(func(c *ConnectionConfig) *time.Duration { return &c.ConnMaxLifetime })},
	{"DB_ENABLE_QUERY_LOG", envBool(func(c *ConnectionConfig) *bool { return &c.EnableQueryLog })},
	{"DB_SLOW_QUERY_TIME", envDuration(func(c *ConnectionConfig) *time.Duration { return &c.SlowQueryTime })},
}

// ApplyEnv overwrites settings from the DB_* variables that are set and
// non-empty.
func (c *ConnectionConfig) ApplyEnv() error {
	for _, s := range envSettings {
		v := os.Getenv(s.key)
		if v == "" {
			continue
		}
		if err := s.set(c, v); err != nil {
			return fmt.Errorf("invalid %s=%q: %w", s.key, v, err)
		}
	}
	return nil
}
