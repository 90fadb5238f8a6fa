/*
 * Copyright 2026 The Coedit Authors. All rights reserved.
 *
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

// Package logging provides logging facilities for the Coedit server.
// Every component logs through a named sugared logger; request-scoped
// loggers travel in the context.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper of zap.SugaredLogger.
type Logger = *zap.SugaredLogger

var (
	logLevel = zapcore.InfoLevel

	defaultOnce   sync.Once
	defaultLogger Logger
)

// SetLogLevel sets the level of loggers created afterwards. It must be
// called before DefaultLogger or New.
func SetLogLevel(level string) error {
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	logLevel = parsed
	return nil
}

// New creates a named logger for a server component.
func New(name string) Logger {
	return newLogger(name)
}

// DefaultLogger returns the logger used where no component logger is
// available, such as process-level startup and shutdown paths.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		defaultLogger = newLogger("default")
	})
	return defaultLogger
}

// Enabled returns whether the given level would be emitted. Callers use
// it to skip building log arguments on hot paths.
func Enabled(level zapcore.Level) bool {
	return level >= logLevel
}

func newLogger(name string) Logger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.AddSync(os.Stdout),
		logLevel,
	)

	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named(name).Sugar()
}
