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
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ncbi/vfscore/internal/atomicfile"
	"github.com/ncbi/vfscore/rc"
)

// Bindings is the object-id <-> object-name table the manager's
// RegisterObject/GetObject/GetObjectId delegate to (§4.4, "Key bindings",
// spec line 56: "Persisted via a bindings file the keystore manages").
// Each line of the backing file is "<oid> <serialized-path>".
type Bindings struct {
	path string

	mu      sync.Mutex
	byOID   map[uint32]string
	byName  map[string]uint32
}

// OpenBindings loads path if it exists (a missing file is an empty table,
// not an error) and returns a Bindings ready for use.
func OpenBindings(path string) (*Bindings, error) {
	b := &Bindings{
		path:   path,
		byOID:  make(map[uint32]string),
		byName: make(map[string]uint32),
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, rc.Wrap(err, rc.ObjectFile, "keystore.OpenBindings", rc.CauseUnexpected)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		oidText, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		oid, err := strconv.ParseUint(oidText, 10, 32)
		if err != nil {
			continue
		}
		b.byOID[uint32(oid)] = name
		b.byName[name] = uint32(oid)
	}
	if err := scanner.Err(); err != nil {
		return nil, rc.Wrap(err, rc.ObjectFile, "keystore.OpenBindings", rc.CauseUnexpected)
	}
	return b, nil
}

// Register binds oid to name, overwriting any existing binding for oid,
// and persists the table back to disk.
func (b *Bindings) Register(oid uint32, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.byOID[oid]; ok {
		delete(b.byName, old)
	}
	b.byOID[oid] = name
	b.byName[name] = oid
	return b.saveLocked()
}

// Object returns the name bound to oid.
func (b *Bindings) Object(oid uint32) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	name, ok := b.byOID[oid]
	return name, ok
}

// ObjectID returns the oid bound to name.
func (b *Bindings) ObjectID(name string) (uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	oid, ok := b.byName[name]
	return oid, ok
}

func (b *Bindings) saveLocked() error {
	var buf bytes.Buffer
	for oid, name := range b.byOID {
		fmt.Fprintf(&buf, "%d %s\n", oid, name)
	}
	if err := atomicfile.Write(b.path, buf.Bytes(), 0o600); err != nil {
		return rc.Wrap(err, rc.ObjectFile, "keystore.Bindings.save", rc.CauseUnexpected)
	}
	return nil
}
