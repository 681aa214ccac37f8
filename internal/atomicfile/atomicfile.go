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

// Package atomicfile provides the write-to-staging-file-then-rename
// idiom used everywhere this module persists state to disk (the object-id
// bindings table, the krypto password file): the staging name carries a
// random suffix so two processes racing to rewrite the same path never
// collide on one another's temporary file.
package atomicfile

import (
	"os"

	"github.com/google/uuid"
)

// Write atomically replaces path's content with data: it writes to a
// uniquely-named staging file in the same directory, then renames it over
// path. A failure at either step removes the staging file before
// returning.
func Write(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, perm); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
