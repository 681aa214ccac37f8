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

package vfsio

import "io"

// memStream is a test-only in-memory Stream over a fixed byte slice.
type memStream struct {
	data   []byte
	closed bool
}

func newMemStream(data []byte) *memStream { return &memStream{data: data} }

func (m *memStream) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memStream) Close() error        { m.closed = true; return nil }
func (m *memStream) Size() (int64, bool) { return int64(len(m.data)), true }
func (m *memStream) RandomAccess() bool  { return true }
