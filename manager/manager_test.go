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

package manager

import "testing"

func TestGetManagerIsIdempotent(t *testing.T) {
	defer resetSingleton(t)

	dir := t.TempDir()
	m1, err := GetManager(Config{BaseDir: dir})
	if err != nil {
		t.Fatalf("GetManager: %v", err)
	}
	m2, err := GetManager(Config{BaseDir: "/somewhere/else/ignored"})
	if err != nil {
		t.Fatalf("GetManager (second): %v", err)
	}
	if m1 != m2 {
		t.Fatalf("want the same Manager instance across calls")
	}
	if m2.GetCWD() != dir {
		t.Fatalf("want the second call's Config ignored; got cwd %q", m2.GetCWD())
	}
}

func TestReleaseTearsDownAfterLastReference(t *testing.T) {
	defer resetSingleton(t)

	dir := t.TempDir()
	m1, err := GetManager(Config{BaseDir: dir})
	if err != nil {
		t.Fatalf("GetManager: %v", err)
	}
	if _, err := GetManager(Config{BaseDir: dir}); err != nil {
		t.Fatalf("GetManager (second ref): %v", err)
	}

	Release(m1)
	singletonMu.Lock()
	stillAlive := instance != nil
	singletonMu.Unlock()
	if !stillAlive {
		t.Fatalf("want the singleton to survive while a second reference is outstanding")
	}

	Release(m1)
	singletonMu.Lock()
	cleared := instance == nil
	singletonMu.Unlock()
	if !cleared {
		t.Fatalf("want the singleton slot cleared after the last Release")
	}

	dir2 := t.TempDir()
	m3, err := GetManager(Config{BaseDir: dir2})
	if err != nil {
		t.Fatalf("GetManager (after teardown): %v", err)
	}
	if m3 == m1 {
		t.Fatalf("want a fresh instance after full teardown")
	}
	if m3.GetCWD() != dir2 {
		t.Fatalf("want the fresh instance built from the new Config")
	}
	Release(m3)
}

// resetSingleton clears any leftover singleton state between tests, since
// the package-level slot persists across table-driven test functions.
func resetSingleton(t *testing.T) {
	t.Helper()
	singletonMu.Lock()
	instance = nil
	refCount = 0
	singletonMu.Unlock()
}
