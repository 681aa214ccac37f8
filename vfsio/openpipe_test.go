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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ncbi/vfscore/keystore"
	"github.com/ncbi/vfscore/rc"
	"github.com/ncbi/vfscore/vpath"
)

func mustParsePath(t *testing.T, s string) *vpath.Path {
	t.Helper()
	p, err := vpath.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return p
}

func TestOpenFileReadInvalidScheme(t *testing.T) {
	pl := &Pipeline{}
	p := mustParsePath(t, "bogus-scheme://x")
	_, err := pl.OpenFileRead(p, false)
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseUnsupported {
		t.Fatalf("want CauseUnsupported, got %v", err)
	}
}

func TestOpenFileReadLegacyRefseqDirect(t *testing.T) {
	pl := &Pipeline{}
	p := mustParsePath(t, "x-ncbi-legrefseq:NC_000001")
	_, err := pl.OpenFileRead(p, false)
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseUnsupported {
		t.Fatalf("want CauseUnsupported for a direct legrefseq file-open, got %v", err)
	}
}

func TestOpenFileReadLocalPlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.txt")
	if err := os.WriteFile(path, []byte("plain content"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	pl := &Pipeline{BaseDir: dir}
	p := mustParsePath(t, "x.txt")

	s, err := pl.OpenFileRead(p, false)
	if err != nil {
		t.Fatalf("OpenFileRead: %v", err)
	}
	defer s.Close()

	buf := make([]byte, len("plain content"))
	n, err := s.ReadAt(buf, 0)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf[:n]) != "plain content" {
		t.Fatalf("unexpected content: %q", buf[:n])
	}
}

func TestOpenFileReadEncryptedWithoutKeyFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.sra")
	if err := os.WriteFile(path, []byte("NCBInencXXXX0123456789012345unreadablebytes"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	pl := &Pipeline{BaseDir: dir, Keys: keystore.NewKeyStore(nil)}
	p := mustParsePath(t, "x.sra?enc=1")

	_, err := pl.OpenFileRead(p, false)
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseNotFound {
		t.Fatalf("want CauseNotFound from the keystore, got %v", err)
	}
}

func TestOpenFileReadDeviceNull(t *testing.T) {
	pl := &Pipeline{}
	p := mustParsePath(t, "/dev/null")
	s, err := pl.OpenFileRead(p, false)
	if err != nil {
		t.Fatalf("OpenFileRead: %v", err)
	}
	defer s.Close()
	buf := make([]byte, 4)
	n, err := s.ReadAt(buf, 0)
	if n != 0 {
		t.Fatalf("want 0 bytes from /dev/null, got %d (err=%v)", n, err)
	}
}
