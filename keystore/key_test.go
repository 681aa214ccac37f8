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
	"errors"
	"strings"
	"testing"

	"github.com/ncbi/vfscore/rc"
)

type stubStore struct {
	key     []byte
	found   bool
	err     error
	calledWith string
}

func (s *stubStore) CurrentKey(repo string) ([]byte, bool, error) {
	s.calledWith = repo
	return s.key, s.found, s.err
}

func TestTrimKeyTruncatesAtNewline(t *testing.T) {
	got := trimKey([]byte("secret\nmore-stuff"))
	if string(got) != "secret" {
		t.Fatalf("want \"secret\", got %q", got)
	}
	got = trimKey([]byte("secret\rmore-stuff"))
	if string(got) != "secret" {
		t.Fatalf("want \"secret\" for CR, got %q", got)
	}
}

func TestTrimKeyCapsLength(t *testing.T) {
	long := strings.Repeat("a", maxKeyBytes+100)
	got := trimKey([]byte(long))
	if len(got) != maxKeyBytes {
		t.Fatalf("want length %d, got %d", maxKeyBytes, len(got))
	}
}

func TestAcquirePrefersTemporaryKey(t *testing.T) {
	store := &stubStore{key: []byte("store-key"), found: true}
	ks := NewKeyStore(store)
	ks.SetTemporaryKey([]byte("temp-key"))

	key, err := ks.Acquire("repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(key) != "temp-key" {
		t.Fatalf("want temp-key, got %q", key)
	}
	if store.calledWith != "" {
		t.Fatalf("want Store not consulted when a temporary key is set")
	}

	// §4.5 step 4: the temporary slot is cleared unconditionally, so a
	// second Acquire call falls through to the store.
	key2, err := ks.Acquire("repo")
	if err != nil {
		t.Fatalf("unexpected error on second Acquire: %v", err)
	}
	if string(key2) != "store-key" {
		t.Fatalf("want store-key after the temporary slot clears, got %q", key2)
	}
	if store.calledWith != "repo" {
		t.Fatalf("want Store consulted with repo=\"repo\", got %q", store.calledWith)
	}
}

func TestAcquireFallsBackToStore(t *testing.T) {
	store := &stubStore{key: []byte("store-key"), found: true}
	ks := NewKeyStore(store)

	key, err := ks.Acquire("repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(key) != "store-key" {
		t.Fatalf("want store-key, got %q", key)
	}
}

func TestAcquireNotFound(t *testing.T) {
	ks := NewKeyStore(&stubStore{})
	_, err := ks.Acquire("repo")
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseNotFound {
		t.Fatalf("want CauseNotFound, got %v", err)
	}
}

func TestAcquireNilStoreNotFound(t *testing.T) {
	ks := NewKeyStore(nil)
	_, err := ks.Acquire("repo")
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseNotFound {
		t.Fatalf("want CauseNotFound for a nil Store, got %v", err)
	}
}
