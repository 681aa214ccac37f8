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

package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/ncbi/vfscore/rc"
)

// FileStore is a Store backed by a small "key = value" text file, one
// setting per line. Blank lines and lines whose first non-blank rune is
// '#' are ignored.
type FileStore struct {
	values map[string]string
}

// LoadFile reads path as a key = value file and returns a ready FileStore.
func LoadFile(path string) (*FileStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rc.Wrap(err, rc.ObjectFile, "config.LoadFile", rc.CauseNotFound)
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, rc.Wrap(err, rc.ObjectFile, "config.LoadFile", rc.CauseUnexpected)
	}
	return &FileStore{values: values}, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}
