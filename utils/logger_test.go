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

package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsShared(t *testing.T) {
	a := NewLogger("SHARED")
	assert.Same(t, a, NewLogger("SHARED"))
	assert.True(t, SetLoggerLevel("SHARED", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("NOPE", "error"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("bogus"))
}

func TestJSONLogFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&JSONLogFormatter{LoggerName: "TEST"})
	l.WithField("rows", 3).Info("seeded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "seeded", line["msg"])
	assert.Equal(t, "TEST", line["logger"])
	assert.EqualValues(t, 3, line["rows"])
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("PANACHE_TEST_STR", "x")
	t.Setenv("PANACHE_TEST_BOOL", "true")
	assert.Equal(t, "x", EnvDefaultString("PANACHE_TEST_STR", "d"))
	assert.Equal(t, "d", EnvDefaultString("PANACHE_TEST_UNSET", "d"))
	assert.True(t, EnvDefaultBool("PANACHE_TEST_BOOL", false))
	assert.False(t, EnvDefaultBool("PANACHE_TEST_UNSET", false))
}
