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
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedLogger struct {
	msgs []string
}

func (c *capturedLogger) Debug(msg string, _ ...any) { c.msgs = append(c.msgs, msg) }
func (c *capturedLogger) Info(msg string, _ ...any)  { c.msgs = append(c.msgs, msg) }
func (c *capturedLogger) Warn(msg string, _ ...any)  { c.msgs = append(c.msgs, msg) }
func (c *capturedLogger) Error(msg string, _ ...any) { c.msgs = append(c.msgs, msg) }

func TestLogrusLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	NewLogrusLogger(l).Warn("Slow query", "took", "3s", "orphan")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Slow query", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "3s", entry["took"])
	assert.Equal(t, "orphan", entry["!BADKEY"])
}

func TestSetLogger(t *testing.T) {
	captured := &capturedLogger{}
	SetLogger(captured)
	t.Cleanup(func() { SetLogger(nil) })
	assert.Same(t, captured, GetLogger())

	m := NewManager(memoryConn(), nil)
	require.NoError(t, m.Connect(context.Background()))
	require.NoError(t, m.Close())
	assert.Equal(t, []string{"Database connected", "Database connection closed"}, captured.msgs)

	SetLogger(nil)
	assert.IsType(t, logrusLogger{}, GetLogger())
}
