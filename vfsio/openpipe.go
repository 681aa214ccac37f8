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
	"path/filepath"

	"github.com/ncbi/vfscore/internal/obslog"
	"github.com/ncbi/vfscore/keystore"
	"github.com/ncbi/vfscore/rc"
	"github.com/ncbi/vfscore/vpath"
)

const (
	localReadBufSize  = 256 * 1024 * 1024
	remoteReadBufSize = 128 * 1024 * 1024
	prefixProbeLen    = 4096
)

// CacheOracle is the narrow slice of resolver.Oracle the open pipeline
// needs: a cache-file location to pair with a remote open (§4.6 step 2 of
// the remote path).
type CacheOracle interface {
	Cache(name string) (path vpath.Path, found bool, err error)
}

// RemoteOpener opens a remote URL for reading. This module ships no
// implementation: callers supply one, and with a nil RemoteOpener every
// remote open fails as unsupported.
type RemoteOpener interface {
	OpenRemote(url string) (Stream, int64, bool, error)
}

// Pipeline is the open-pipeline's dependencies (§4.6), gathered so
// Manager can construct one Pipeline and reuse it across calls.
type Pipeline struct {
	BaseDir  string
	Keys     *keystore.KeyStore
	Cache    CacheOracle
	Remote   RemoteOpener
	Archives ArchiveRegistry
}

// OpenFileRead implements §4.6's OpenFileRead: dispatch by scheme_type.
func (pl *Pipeline) OpenFileRead(p *vpath.Path, forceDecrypt bool) (Stream, error) {
	switch p.SchemeType() {
	case vpath.SchemeInvalid:
		return nil, rc.New(rc.ObjectPath, "vfsio.OpenFileRead", rc.CauseInvalid)
	case vpath.SchemeNotSupported:
		return nil, rc.New(rc.ObjectPath, "vfsio.OpenFileRead", rc.CauseUnsupported)
	case vpath.SchemeNCBILegacyRefseq:
		return nil, rc.New(rc.ObjectFile, "vfsio.OpenFileRead", rc.CauseUnsupported)
	case vpath.SchemeHTTP, vpath.SchemeHTTPS, vpath.SchemeFTP, vpath.SchemeFASP:
		return pl.openRemote(p, forceDecrypt)
	default:
		return pl.openLocal(p, forceDecrypt)
	}
}

func (pl *Pipeline) openLocal(p *vpath.Path, forceDecrypt bool) (Stream, error) {
	native := p.PathPart()

	if open, ok := devicePath(native); ok {
		return open()
	}

	full := native
	if !filepath.IsAbs(full) {
		full = filepath.Join(pl.BaseDir, native)
	}

	raw, err := openRawFile(full)
	if err != nil {
		return nil, err
	}

	encrypted := forceDecrypt || hasEncryptedOption(p)
	stream, err := pl.probeDecrypt(raw, encrypted)
	if err != nil {
		return nil, err
	}
	return newBufferedStream(stream, localReadBufSize), nil
}

func (pl *Pipeline) openRemote(p *vpath.Path, forceDecrypt bool) (Stream, error) {
	if pl.Remote == nil {
		return nil, rc.New(rc.ObjectFile, "vfsio.OpenFileRead", rc.CauseUnsupported)
	}
	uri := p.MakeString()
	remote, size, hasSize, err := pl.Remote.OpenRemote(uri)
	if err != nil {
		return nil, err
	}

	var stream Stream = remote
	if pl.Cache != nil {
		if cachePath, found, err := pl.Cache.Cache(p.PathPart()); err == nil && found {
			sz := int64(-1)
			if hasSize {
				sz = size
			}
			if tee, err := newCacheTee(remote, cachePath.PathPart(), sz); err == nil {
				stream = tee
			} else {
				obslog.Named("vfsio").Warn("cache-tee setup failed, continuing uncached", obslog.Error(err))
			}
		}
	}
	if stream == Stream(remote) {
		stream = newBufferedStream(stream, remoteReadBufSize)
	}

	encrypted := forceDecrypt || hasEncryptedOption(p)
	return pl.probeDecrypt(stream, encrypted)
}

// probeDecrypt implements §4.6 step 4: read a 4 KiB prefix, match an
// envelope, and wrap in the corresponding decryption stage. A stream
// that is not flagged encrypted, or whose prefix matches no envelope, is
// returned unwrapped — the probe never raises on "not an envelope" (§7).
func (pl *Pipeline) probeDecrypt(s Stream, encrypted bool) (Stream, error) {
	if !encrypted {
		return s, nil
	}

	prefix := make([]byte, prefixProbeLen)
	n, err := s.ReadAt(prefix, 0)
	if n == 0 && err != nil {
		return nil, err
	}
	prefix = prefix[:n]

	kind := detectEnvelope(prefix)
	if kind == envelopeNone {
		return s, nil
	}

	var repo string // reserved for future per-repository key scoping
	key, err := pl.Keys.Acquire(repo)
	if err != nil {
		return nil, err
	}

	switch kind {
	case envelopeAES:
		return newAESEnvelopeStream(s, prefix, key)
	case envelopeWGA:
		return newWGAEnvelopeStream(s, prefix, key)
	default:
		return s, nil
	}
}

func hasEncryptedOption(p *vpath.Path) bool {
	return p.HasOption(vpath.OptEncrypted)
}
