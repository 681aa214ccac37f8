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
	"bytes"
	"sync"

	"github.com/ncbi/vfscore/internal/obslog"
	"github.com/ncbi/vfscore/rc"
)

const maxKeyBytes = 4096

// trimKey enforces §4.5's key shape: at most maxKeyBytes, truncated at the
// first embedded '\n' or '\r'.
func trimKey(data []byte) []byte {
	if i := bytes.IndexAny(data, "\n\r"); i >= 0 {
		data = data[:i]
	}
	if len(data) > maxKeyBytes {
		data = data[:maxKeyBytes]
	}
	return data
}

// KeyStore is the manager-facing key acquirer implementing §4.5's
// priority chain: a temporary key (from pwpath/pwfd, supplied by the
// caller who already read it off the filesystem) takes precedence over
// Store, and the temporary slot is unconditionally cleared at the end of
// every Acquire call, whichever path was taken.
type KeyStore struct {
	Store Store

	mu      sync.Mutex
	temp    []byte
	hasTemp bool
}

// NewKeyStore constructs a KeyStore backed by store (which may be nil,
// meaning step 3 of §4.5 always reports not-found).
func NewKeyStore(store Store) *KeyStore {
	return &KeyStore{Store: store}
}

// SetTemporaryKey installs key as the pwpath/pwfd override for the next
// Acquire call (§4.5 steps 1-2). Embedded newlines and the 4096-byte cap
// are applied here, not by the caller.
func (k *KeyStore) SetTemporaryKey(key []byte) {
	trimmed := trimKey(key)
	cp := make([]byte, len(trimmed))
	copy(cp, trimmed)

	k.mu.Lock()
	defer k.mu.Unlock()
	k.temp = cp
	k.hasTemp = true
}

// Acquire implements §4.5's full priority chain for repo: the temporary
// key if one was set, else Store.CurrentKey(repo). The temporary slot is
// cleared unconditionally before returning, success or failure.
func (k *KeyStore) Acquire(repo string) ([]byte, error) {
	k.mu.Lock()
	// Copy out of the slot: clearTemp zeroes the slot's backing array.
	temp := append([]byte(nil), k.temp...)
	hasTemp := k.hasTemp
	k.mu.Unlock()
	defer k.clearTemp()

	if hasTemp {
		return temp, nil
	}

	if k.Store == nil {
		return nil, rc.New(rc.ObjectEncryptionKey, "keystore.Acquire", rc.CauseNotFound)
	}
	key, found, err := k.Store.CurrentKey(repo)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, rc.New(rc.ObjectEncryptionKey, "keystore.Acquire", rc.CauseNotFound)
	}
	return trimKey(key), nil
}

func (k *KeyStore) clearTemp() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.temp {
		k.temp[i] = 0
	}
	k.temp = nil
	k.hasTemp = false
	obslog.Named("keystore").Debug("temporary key slot cleared")
}
