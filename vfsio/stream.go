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

// Package vfsio implements the open pipeline (§4.6): dispatch from a
// classified vpath.Path to a concrete Stream, through local-file,
// remote-transport, cache-tee, decryption, and archive-as-directory
// stages.
package vfsio

import "io"

// Stream is the "opaque KFile variants" design note (§9) realized as an
// interface: every stage of the file-open pipeline — raw file, buffer,
// cache-tee, decrypt — implements it (the archive-mount result, Directory,
// does not), each wrapping stage holding the stage
// below with a plain strong reference so Close cascades (§5's resource
// policy falls out of ordinary Go composition, no manual refcounting).
type Stream interface {
	io.ReaderAt
	io.Closer

	// Size reports the stream's total byte length, if known.
	Size() (int64, bool)

	// RandomAccess reports whether ReadAt may be called with arbitrary,
	// non-monotonic offsets. Directory-open (§4.6) requires this.
	RandomAccess() bool
}

// wrapped is embedded by every stage that holds a strong reference to the
// stage below it, giving Close, Size, and RandomAccess a default
// cascading/delegating implementation that concrete stages can override
// selectively.
type wrapped struct {
	under Stream
}

func (w wrapped) Close() error {
	return w.under.Close()
}

func (w wrapped) Size() (int64, bool) {
	return w.under.Size()
}

func (w wrapped) RandomAccess() bool {
	return w.under.RandomAccess()
}
