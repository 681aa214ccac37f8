// Copyright 2025 Trident Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package obslog is the thin structured-logging wrapper every package in
// this module logs through. It exists so that a downstream embedder can
// replace the global logger (via Replace) without every package importing
// zap directly.
package obslog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.Logger = zap.NewNop()
)

// Replace installs logger as the process-wide logger. A nil logger
// installs a no-op logger instead of panicking on later calls.
func Replace(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	log = logger
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Named returns a child logger scoped to name (e.g. "resolver", "vfsio").
func Named(name string) *zap.Logger {
	return current().Named(name)
}

// Field re-exports are kept to a minimal set; callers that need more of
// zap's field constructors can import zap directly.
var (
	String = zap.String
	Error  = zap.Error
	Int    = zap.Int
	Bool   = zap.Bool
)
