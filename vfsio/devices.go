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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ncbi/vfscore/rc"
)

// devicePath recognizes the special-cased device paths of §4.6 step 2:
// /dev/stdin, /dev/null, /dev/fd/<N>.
func devicePath(path string) (openDevice func() (Stream, error), ok bool) {
	switch {
	case path == "/dev/stdin":
		return func() (Stream, error) { return newStdinStream(), nil }, true
	case path == "/dev/null":
		return func() (Stream, error) { return newNullStream(), nil }, true
	case strings.HasPrefix(path, "/dev/fd/"):
		numText := strings.TrimPrefix(path, "/dev/fd/")
		n, err := strconv.Atoi(numText)
		if err != nil || n < 0 {
			return nil, false
		}
		return func() (Stream, error) { return newFDStream(n) }, true
	default:
		return nil, false
	}
}

// stdinStream wraps os.Stdin. It is sequential only: no random access, no
// known size.
type stdinStream struct{}

func newStdinStream() *stdinStream { return &stdinStream{} }

func (s *stdinStream) ReadAt(p []byte, off int64) (int, error) {
	if off != 0 {
		return 0, rc.New(rc.ObjectFile, "vfsio.stdinStream.ReadAt", rc.CauseUnsupported)
	}
	return os.Stdin.Read(p)
}

func (s *stdinStream) Close() error             { return nil }
func (s *stdinStream) Size() (int64, bool)      { return 0, false }
func (s *stdinStream) RandomAccess() bool       { return false }

// nullStream always reads zero bytes at EOF, matching /dev/null.
type nullStream struct{}

func newNullStream() *nullStream { return &nullStream{} }

func (s *nullStream) ReadAt(p []byte, off int64) (int, error) { return 0, io.EOF }
func (s *nullStream) Close() error                            { return nil }
func (s *nullStream) Size() (int64, bool)                     { return 0, true }
func (s *nullStream) RandomAccess() bool                      { return true }

// fdStream wraps an already-open numeric file descriptor.
type fdStream struct {
	f *os.File
}

func newFDStream(fd int) (*fdStream, error) {
	f := os.NewFile(uintptr(fd), "/dev/fd/"+strconv.Itoa(fd))
	if f == nil {
		return nil, rc.New(rc.ObjectFile, "vfsio.newFDStream", rc.CauseInvalid)
	}
	return &fdStream{f: f}, nil
}

func (s *fdStream) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *fdStream) Close() error                            { return s.f.Close() }

func (s *fdStream) Size() (int64, bool) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

func (s *fdStream) RandomAccess() bool { return true }
