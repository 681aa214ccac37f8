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

// Package manager implements the process-wide singleton (§4.4) that
// composes the resolver facade, the keystore, the open pipeline, and the
// object-id bindings table behind one handle.
package manager

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ncbi/vfscore/config"
	"github.com/ncbi/vfscore/keystore"
	"github.com/ncbi/vfscore/rc"
	"github.com/ncbi/vfscore/resolver"
	"github.com/ncbi/vfscore/vfsio"
)

// Config gathers Manager's construction-time dependencies. Only the first
// successful GetManager call in the process consumes it; later calls
// during the singleton's lifetime return the existing instance and ignore
// their Config argument, per §4.4's "idempotent get-or-create".
type Config struct {
	// BaseDir is the directory local, scheme-less paths resolve against.
	// Defaults to the process's working directory.
	BaseDir string
	// BindingsPath is where the object-id<->name table is persisted.
	// Defaults to a file named ".vfscore-bindings" under BaseDir.
	BindingsPath string
	// Config backs GetConfig and the keystore's krypto/pwfile fallback.
	Config config.Store
	// Oracle is the resolver's external collaborator. Nil is valid: see
	// resolver.Facade's zero-Oracle behavior.
	Oracle resolver.Oracle
	// KeyStore overrides the default keystore.FileStore. Nil selects the
	// default, configured from RepoKeyDir/PwEnv/Config below.
	KeyStore   keystore.Store
	RepoKeyDir string
	PwEnv      string
	// Remote and Cache back the open pipeline's remote-read path.
	Remote   vfsio.RemoteOpener
	Cache    vfsio.CacheOracle
	Archives vfsio.ArchiveRegistry
}

// Manager is the composed singleton handle (§4.4).
type Manager struct {
	cwd    string
	config config.Store
	pwEnv  string

	resolver *resolver.Facade
	keys     *keystore.KeyStore
	bindings *keystore.Bindings
	pipeline *vfsio.Pipeline

	mu sync.Mutex // guards UpdateKryptoPassword's rewrite
}

var (
	singletonMu sync.Mutex
	instance    *Manager
	refCount    int
	construct   singleflight.Group
)

// GetManager returns the process-wide Manager, constructing it from cfg on
// the first call and handing back an additional reference (ignoring cfg)
// on every subsequent call while the singleton is alive (§4.4). Concurrent
// first calls collapse onto a single construction via singleflight.
func GetManager(cfg Config) (*Manager, error) {
	singletonMu.Lock()
	if instance != nil {
		refCount++
		m := instance
		singletonMu.Unlock()
		return m, nil
	}
	singletonMu.Unlock()

	v, err, _ := construct.Do("manager", func() (interface{}, error) {
		return newManager(cfg)
	})
	if err != nil {
		return nil, err
	}
	built := v.(*Manager)

	singletonMu.Lock()
	defer singletonMu.Unlock()
	if instance == nil {
		instance = built
		refCount = 1
		return instance, nil
	}
	refCount++
	return instance, nil
}

// Release drops one reference to the singleton (§4.4). The slot is cleared
// once the last reference is released, so a later GetManager constructs
// afresh.
func Release(m *Manager) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if instance == nil || instance != m {
		return
	}
	refCount--
	if refCount <= 0 {
		instance = nil
		refCount = 0
	}
}

func newManager(cfg Config) (*Manager, error) {
	cwd := cfg.BaseDir
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, rc.Wrap(err, rc.ObjectDirectory, "manager.newManager", rc.CauseNotFound)
		}
		cwd = wd
	}

	ks := cfg.KeyStore
	if ks == nil {
		fs := keystore.NewFileStore(cfg.Config)
		fs.RepoKeyDir = cfg.RepoKeyDir
		fs.PwEnv = cfg.PwEnv
		ks = fs
	}

	bindingsPath := cfg.BindingsPath
	if bindingsPath == "" {
		bindingsPath = filepath.Join(cwd, ".vfscore-bindings")
	}
	bindings, err := keystore.OpenBindings(bindingsPath)
	if err != nil {
		return nil, err
	}

	keys := keystore.NewKeyStore(ks)

	return &Manager{
		cwd:      cwd,
		config:   cfg.Config,
		pwEnv:    cfg.PwEnv,
		resolver: resolver.New(cfg.Oracle),
		keys:     keys,
		bindings: bindings,
		pipeline: &vfsio.Pipeline{
			BaseDir:  cwd,
			Keys:     keys,
			Cache:    cfg.Cache,
			Remote:   cfg.Remote,
			Archives: cfg.Archives,
		},
	}, nil
}
