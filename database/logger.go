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
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/panache/utils"
)

// LoggerName is the registry name of the database logger.
const LoggerName = "DATABASE"

var (
	loggerMu sync.RWMutex
	logger   Logger
)

// Logger takes a message followed by alternating key/value pairs.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// SetLogger replaces the package logger; nil restores the default.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// GetLogger returns the package logger, a logrus logger named LoggerName
// unless SetLogger installed another.
func GetLogger() Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	return NewLogrusLogger(utils.NewLogger(LoggerName))
}

// NewLogrusLogger adapts l to Logger, turning key/value pairs into fields.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return logrusLogger{l}
}

type logrusLogger struct {
	*logrus.Logger
}

func (l logrusLogger) Debug(msg string, kv ...any) { l.with(kv).Debug(msg) }
func (l logrusLogger) Info(msg string, kv ...any)  { l.with(kv).Info(msg) }
func (l logrusLogger) Warn(msg string, kv ...any)  { l.with(kv).Warn(msg) }
func (l logrusLogger) Error(msg string, kv ...any) { l.with(kv).Error(msg) }

func (l logrusLogger) with(kv []any) *logrus.Entry {
	fields := make(logrus.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			fields["!BADKEY"] = kv[i]
			break
		}
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.Logger.WithFields(fields)
}
