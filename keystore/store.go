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

// Package keystore implements §4.5's key acquisition priority chain: a
// pluggable Store backing the manager's krypto password, plus a single
// in-memory temporary-key slot for pwpath/pwfd overrides.
package keystore

// Store is the external collaborator that produces the current krypto
// key for a protected repository. A concrete filesystem-backed
// implementation is provided by FileStore; callers may substitute a test
// double or another backing mechanism entirely.
type Store interface {
	// CurrentKey returns the active key for repo (the empty string names
	// the default, unqualified repository), consulting whatever the
	// implementation considers its priority chain. found is false, not an
	// error, when no key is configured anywhere in that chain.
	CurrentKey(repo string) (key []byte, found bool, err error)
}
