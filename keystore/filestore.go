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

package keystore

import (
	"os"
	"path/filepath"

	"github.com/ncbi/vfscore/config"
	"github.com/ncbi/vfscore/rc"
)

// FileStore is the default Store (§4.5 step 3): it consults, in order, a
// per-repository key file, the VDB_PWFILE environment variable, the
// manager's pw_env override, and the configured global krypto/pwfile.
type FileStore struct {
	// RepoKeyDir holds one key file per protected repository, named after
	// the repository. Empty disables the per-repository lookup.
	RepoKeyDir string
	// PwEnv names an environment variable (set via the manager's pw_env
	// override) that itself holds a path to a key file. Empty disables
	// this step.
	PwEnv string
	// Config backs the final krypto/pwfile fallback. May be nil.
	Config config.Store

	// getenv is overridable for tests.
	getenv func(string) string
}

// NewFileStore constructs a FileStore with no per-repository directory or
// pw_env override configured; set the exported fields directly to enable
// them.
func NewFileStore(cfg config.Store) *FileStore {
	return &FileStore{Config: cfg, getenv: os.Getenv}
}

func (s *FileStore) env(name string) string {
	if s.getenv != nil {
		return s.getenv(name)
	}
	return os.Getenv(name)
}

// CurrentKey implements Store by walking §4.5 step 3's chain until one
// candidate file exists and is readable.
func (s *FileStore) CurrentKey(repo string) ([]byte, bool, error) {
	for _, path := range s.candidatePaths(repo) {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err == nil {
			return trimKey(data), true, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, rc.Wrap(err, rc.ObjectEncryptionKey, "keystore.CurrentKey", rc.CauseUnexpected)
		}
	}
	return nil, false, nil
}

func (s *FileStore) candidatePaths(repo string) []string {
	paths := make([]string, 0, 4)

	if repo != "" && s.RepoKeyDir != "" {
		paths = append(paths, filepath.Join(s.RepoKeyDir, repo))
	}
	if v := s.env("VDB_PWFILE"); v != "" {
		paths = append(paths, v)
	}
	if s.PwEnv != "" {
		if v := s.env(s.PwEnv); v != "" {
			paths = append(paths, v)
		}
	}
	if s.Config != nil {
		if v, ok := s.Config.Get("krypto/pwfile"); ok && v != "" {
			paths = append(paths, v)
		}
	}
	return paths
}
