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
	"archive/tar"
	"errors"
	"io"
	"strings"

	"github.com/ncbi/vfscore/rc"
	"github.com/ncbi/vfscore/vpath"
)

// ErrFormatNotLinked is returned by an ArchiveReader that recognizes its
// magic but has no implementation linked in — the documented seam for
// the SRA/KAR reader, which is out of scope (§1).
var ErrFormatNotLinked = errors.New("vfsio: archive format recognized but not linked into this build")

// Directory is the directory-shaped view §4.6's OpenDirectoryRead
// produces: a flat listing of entries mounted from an archive stream.
type Directory struct {
	Entries []DirEntry
	reader  ArchiveReader
}

// DirEntry names one member of an opened archive.
type DirEntry struct {
	Name  string
	Size  int64
	IsDir bool
}

// ArchiveReader is the external collaborator behind "archive-as-directory"
// dispatch (§4.6 step 2 of OpenDirectoryRead): given a 4 KiB prefix, it
// decides whether it recognizes the stream's format, and if so mounts it.
type ArchiveReader interface {
	// Probe reports whether prefix matches this reader's magic.
	Probe(prefix []byte) bool
	// Open mounts s as a directory. subdir selects a nested path within
	// the archive (the Path fragment, minus '#'); "" mounts the root.
	Open(s Stream, subdir string) (*Directory, error)
}

// ArchiveRegistry is the ordered set of ArchiveReaders probed in turn.
type ArchiveRegistry []ArchiveReader

// DefaultArchives returns the registry's default members: an SRA/KAR seam
// (documented as unlinked) tried first, per spec's own intended
// precedence ("Test SRA/KAR magic... Else test TAR magic"), then the
// stdlib-backed TAR reader.
func DefaultArchives() ArchiveRegistry {
	return ArchiveRegistry{sraKarReader{}, tarReader{}}
}

// sraKarReader recognizes the SRA/KAR magic bytes but never links a real
// decoder (out of scope per §1); Open always reports ErrFormatNotLinked
// once Probe has matched.
type sraKarReader struct{}

var sraKarMagic = []byte("NCBIkar ") // 8 bytes, includes trailing version digit slot

func (sraKarReader) Probe(prefix []byte) bool {
	return len(prefix) >= len(sraKarMagic) && string(prefix[:len(sraKarMagic)]) == string(sraKarMagic)
}

func (sraKarReader) Open(s Stream, subdir string) (*Directory, error) {
	return nil, ErrFormatNotLinked
}

// tarReader recognizes and mounts a POSIX tar stream via the standard
// library (§4.6: "Magic detection for 'is this TAR' reuses the standard
// archive header checksum the way Go's own archive/tar package validates
// blocks" — done here by simply trying tar.NewReader and reading the
// first header, rather than hand-rolling the checksum check).
type tarReader struct{}

func (tarReader) Probe(prefix []byte) bool {
	r := tar.NewReader(newPrefixReader(prefix))
	_, err := r.Next()
	return err == nil
}

func (tarReader) Open(s Stream, subdir string) (*Directory, error) {
	full, err := io.ReadAll(io.NewSectionReader(s, 0, sizeOrMax(s)))
	if err != nil {
		return nil, rc.Wrap(err, rc.ObjectDirectory, "vfsio.tarReader.Open", rc.CauseIncorrect)
	}
	r := tar.NewReader(newPrefixReader(full))

	entries := make([]DirEntry, 0)
	prefix := strings.TrimPrefix(subdir, "/")
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rc.Wrap(err, rc.ObjectDirectory, "vfsio.tarReader.Open", rc.CauseIncorrect)
		}
		name := strings.TrimPrefix(hdr.Name, "./")
		if prefix != "" && !strings.HasPrefix(name, prefix+"/") {
			continue
		}
		entries = append(entries, DirEntry{
			Name:  name,
			Size:  hdr.Size,
			IsDir: hdr.Typeflag == tar.TypeDir,
		})
	}
	return &Directory{Entries: entries, reader: tarReader{}}, nil
}

func sizeOrMax(s Stream) int64 {
	if size, ok := s.Size(); ok {
		return size
	}
	return 1<<62 - 1
}

type prefixReader struct {
	data []byte
	pos  int
}

func newPrefixReader(data []byte) *prefixReader { return &prefixReader{data: data} }

func (r *prefixReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// OpenDirectoryRead implements §4.6's OpenDirectoryRead: open as a file,
// require random access, probe for a recognized archive format, and
// descend into the fragment-named subdirectory if one was given.
func (pl *Pipeline) OpenDirectoryRead(p *vpath.Path, forceDecrypt bool) (*Directory, error) {
	file, err := pl.OpenFileRead(p, forceDecrypt)
	if err != nil {
		return nil, err
	}
	if !file.RandomAccess() {
		file.Close()
		return nil, rc.New(rc.ObjectDirectory, "vfsio.OpenDirectoryRead", rc.CauseUnsupported)
	}

	prefix := make([]byte, prefixProbeLen)
	n, err := file.ReadAt(prefix, 0)
	if n == 0 && err != nil {
		file.Close()
		return nil, err
	}
	prefix = prefix[:n]

	wasEncrypted := forceDecrypt || hasEncryptedOption(p)
	for _, reader := range pl.archives() {
		if reader.Probe(prefix) {
			subdir := ""
			if frag := p.Fragment(); frag != "" {
				subdir = strings.TrimPrefix(frag, "#")
			}
			dir, err := reader.Open(file, subdir)
			if err != nil {
				file.Close()
				return nil, err
			}
			return dir, nil
		}
	}

	file.Close()
	if wasEncrypted {
		return nil, rc.New(rc.ObjectDirectory, "vfsio.OpenDirectoryRead", rc.CauseIncorrect)
	}
	return nil, rc.New(rc.ObjectDirectory, "vfsio.OpenDirectoryRead", rc.CauseUnsupported)
}

func (pl *Pipeline) archives() ArchiveRegistry {
	if pl.Archives == nil {
		return DefaultArchives()
	}
	return pl.Archives
}
