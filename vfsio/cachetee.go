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

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/ncbi/vfscore/rc"
)

// cacheBlockSize is the block size named in §4.6: 128 KiB.
const cacheBlockSize = 128 * 1024

// cacheTeeStream wraps a remote Stream, writing every fetched block to a
// sparse local file at the matching offset (§4.6 step 2 of the remote
// path; §9's cache-tee design note). Concurrent opens of the same cache
// path are serialized with a POSIX advisory lock on the cache file.
type cacheTeeStream struct {
	wrapped

	cache *os.File

	mu     sync.Mutex
	cached map[int64]bool
}

// newCacheTee opens (creating if needed) cachePath, takes an advisory
// exclusive lock on it (waiting while another open holds it), pre-sizes it to size bytes if size >= 0, and
// returns a Stream that serves reads from remote but mirrors every block
// it touches into the cache file.
func newCacheTee(remote Stream, cachePath string, size int64) (*cacheTeeStream, error) {
	f, err := os.OpenFile(cachePath, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, rc.Wrap(err, rc.ObjectFile, "vfsio.newCacheTee", rc.CauseUnexpected)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, rc.Wrap(err, rc.ObjectFile, "vfsio.newCacheTee", rc.CauseUnsupported)
	}
	if size >= 0 {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, rc.Wrap(err, rc.ObjectFile, "vfsio.newCacheTee", rc.CauseUnexpected)
		}
	}
	return &cacheTeeStream{
		wrapped: wrapped{under: remote},
		cache:   f,
		cached:  make(map[int64]bool),
	}, nil
}

func (c *cacheTeeStream) ReadAt(p []byte, off int64) (int, error) {
	blockStart := (off / cacheBlockSize) * cacheBlockSize

	c.mu.Lock()
	haveBlock := c.cached[blockStart]
	c.mu.Unlock()

	if haveBlock {
		n, err := c.cache.ReadAt(p, off)
		if err == nil || n == len(p) {
			return n, err
		}
	}

	n, err := c.wrapped.under.ReadAt(p, off)
	if n > 0 {
		if _, werr := c.cache.WriteAt(p[:n], off); werr == nil {
			c.mu.Lock()
			c.cached[blockStart] = true
			c.mu.Unlock()
		}
	}
	return n, err
}

func (c *cacheTeeStream) Close() error {
	cacheErr := c.cache.Close()
	underErr := c.wrapped.under.Close()
	if underErr != nil {
		return underErr
	}
	return cacheErr
}
