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

// Package config implements the ambient configuration store (§6): a
// small, dependency-free key = value lookup consulted for settings such
// as krypto/pwfile that have no other natural home.
package config

// Store is the external collaborator the manager and keystore consult for
// configured values. Get reports false, not an error, when key is absent.
type Store interface {
	Get(key string) (value string, found bool)
}

// Map is an in-memory Store, mainly useful for tests and for callers that
// assemble configuration from sources other than a file.
type Map map[string]string

func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
