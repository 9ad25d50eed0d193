/*
 * Copyright 2026 The SyncSphere Authors. All rights reserved.
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


// Package logging provides logging facilities for SyncSphere Server.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper of zap.Logger.
type Logger = *zap.SugaredLogger

// Field is a wrapper of zap.Field.
type Field = zap.Field

const (
	// EncodingConsole writes human readable lines.
	EncodingConsole = "console"

	// EncodingJSON writes one JSON object per line.
	EncodingJSON = "json"
)

var (
	// level is shared by every logger, so changing it affects existing
	// loggers too.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	encodingMu sync.RWMutex
	encoding   = EncodingConsole

	defaultOnce   sync.Once
	defaultLogger Logger
)

// SetLogLevel sets the level of loggers with one of "debug", "info", "warn",
// "error", "panic" or "fatal".
func SetLogLevel(l string) error {
	parsed, err := zapcore.ParseLevel(strings.ToLower(l))
	if err != nil || parsed < zapcore.DebugLevel || parsed > zapcore.FatalLevel || parsed == zapcore.DPanicLevel {
		return fmt.Errorf("invalid log level: %s", l)
	}

	level.SetLevel(parsed)
	return nil
}

// SetEncoding sets the encoding of loggers created afterwards. It must be
// called before DefaultLogger to affect it.
func SetEncoding(enc string) error {
	enc = strings.ToLower(enc)
	if enc != EncodingConsole && enc != EncodingJSON {
		return fmt.Errorf("invalid log encoding: %s", enc)
	}

	encodingMu.Lock()
	defer encodingMu.Unlock()
	encoding = enc
	return nil
}

// Enabled returns true if the given level is enabled.
func Enabled(l zapcore.Level) bool {
	return level.Enabled(l)
}

// DefaultLogger returns the logger used when no logger is in the context.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		defaultLogger = New("default")
	})
	return defaultLogger
}

// New creates a named logger with the given fields.
func New(name string, fields ...Field) Logger {
	return zap.New(
		zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stdout), level),
		zap.AddStacktrace(zapcore.ErrorLevel),
	).Named(name).With(fields...).Sugar()
}

// NewField creates a new field with the given key and value.
func NewField(key string, value string) Field {
	return zap.String(key, value)
}

func newEncoder() zapcore.Encoder {
	encodingMu.RLock()
	defer encodingMu.RUnlock()

	cfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	if encoding == EncodingJSON {
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return zapcore.NewConsoleEncoder(cfg)
}
