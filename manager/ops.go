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

package manager

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ncbi/vfscore/config"
	"github.com/ncbi/vfscore/internal/atomicfile"
	"github.com/ncbi/vfscore/rc"
	"github.com/ncbi/vfscore/resolver"
	"github.com/ncbi/vfscore/vfsio"
	"github.com/ncbi/vfscore/vpath"
)

// GetCWD, GetResolver, GetConfig expose the composed handles (§4.4).
func (m *Manager) GetCWD() string                { return m.cwd }
func (m *Manager) GetResolver() *resolver.Facade { return m.resolver }
func (m *Manager) GetConfig() config.Store       { return m.config }

// ResolvePath and ResolvePathRelative forward to the resolver facade (D).
func (m *Manager) ResolvePath(flags resolver.Flags, p *vpath.Path) (resolver.Result, error) {
	return m.resolver.Resolve(flags, p)
}

func (m *Manager) ResolvePathRelative(flags resolver.Flags, base string, p *vpath.Path) (resolver.Result, error) {
	return m.resolver.ResolveRelative(flags, base, p)
}

// OpenFileRead and OpenFileReadDecrypt implement §4.6, first honoring
// §4.5 steps 1-2: a pwpath/pwfd option on the Path supplies a temporary
// key that takes precedence over the keystore's own lookup.
func (m *Manager) OpenFileRead(p *vpath.Path) (vfsio.Stream, error) {
	if err := m.loadTemporaryKey(p); err != nil {
		return nil, err
	}
	return m.pipeline.OpenFileRead(p, false)
}

func (m *Manager) OpenFileReadDecrypt(p *vpath.Path) (vfsio.Stream, error) {
	if err := m.loadTemporaryKey(p); err != nil {
		return nil, err
	}
	return m.pipeline.OpenFileRead(p, true)
}

func (m *Manager) OpenDirectoryRead(p *vpath.Path) (*vfsio.Directory, error) {
	if err := m.loadTemporaryKey(p); err != nil {
		return nil, err
	}
	return m.pipeline.OpenDirectoryRead(p, false)
}

func (m *Manager) OpenDirectoryReadDecrypt(p *vpath.Path) (*vfsio.Directory, error) {
	if err := m.loadTemporaryKey(p); err != nil {
		return nil, err
	}
	return m.pipeline.OpenDirectoryRead(p, true)
}

// loadTemporaryKey implements §4.5 steps 1-2: a pwpath option names a file
// to read the key from, a pwfd option names an already-open descriptor.
// Neither present is not an error — step 3 (the keystore's own chain)
// still applies inside Acquire.
func (m *Manager) loadTemporaryKey(p *vpath.Path) error {
	if v, ok, err := paramString(p, vpath.OptPwPath); err != nil {
		return err
	} else if ok {
		data, rerr := os.ReadFile(v)
		if rerr != nil {
			return rc.Wrap(rerr, rc.ObjectFile, "manager.loadTemporaryKey", rc.CauseNotFound)
		}
		m.keys.SetTemporaryKey(data)
		return nil
	}

	if v, ok, err := paramString(p, vpath.OptPwFD); err != nil {
		return err
	} else if ok {
		fd, perr := strconv.Atoi(v)
		if perr != nil {
			return rc.Wrap(perr, rc.ObjectParam, "manager.loadTemporaryKey", rc.CauseInvalid)
		}
		f := os.NewFile(uintptr(fd), "pwfd")
		if f == nil {
			return rc.New(rc.ObjectFile, "manager.loadTemporaryKey", rc.CauseNotFound)
		}
		data, rerr := io.ReadAll(f)
		f.Close()
		if rerr != nil {
			return rc.Wrap(rerr, rc.ObjectFile, "manager.loadTemporaryKey", rc.CauseUnexpected)
		}
		m.keys.SetTemporaryKey(data)
	}
	return nil
}

// paramString reads a query parameter's full value using a buffer large
// enough for any key-shaped value (§4.5's 4096-byte cap).
func paramString(p *vpath.Path, opt vpath.QueryOption) (string, bool, error) {
	var buf [4096]byte
	n, ok, err := p.ReadParam(buf[:], string(opt))
	if err != nil {
		return "", true, err
	}
	if !ok {
		return "", false, nil
	}
	return string(buf[:n]), true, nil
}

// OpenFileWrite, CreateFile, and Remove are the write/create/remove paths:
// trivial dispatch through the FS abstraction, reusing the resolver's
// notion of a native path (§1 lists these as out of scope beyond that
// dispatch: no encryption stage is applied on the write side).
func (m *Manager) OpenFileWrite(p *vpath.Path, update bool) (*os.File, error) {
	native := m.nativePath(p)
	flag := os.O_WRONLY
	if update {
		flag = os.O_RDWR
	} else {
		flag |= os.O_TRUNC
	}
	f, err := os.OpenFile(native, flag, 0o644)
	if err != nil {
		return nil, rc.Wrap(err, rc.ObjectFile, "manager.OpenFileWrite", rc.CauseNotFound)
	}
	return f, nil
}

func (m *Manager) CreateFile(p *vpath.Path, mode os.FileMode) (*os.File, error) {
	native := m.nativePath(p)
	f, err := os.OpenFile(native, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return nil, rc.Wrap(err, rc.ObjectFile, "manager.CreateFile", rc.CauseUnexpected)
	}
	return f, nil
}

func (m *Manager) Remove(p *vpath.Path, force bool) error {
	native := m.nativePath(p)
	if err := os.Remove(native); err != nil {
		if os.IsNotExist(err) && force {
			return nil
		}
		return rc.Wrap(err, rc.ObjectFile, "manager.Remove", rc.CauseNotFound)
	}
	return nil
}

func (m *Manager) nativePath(p *vpath.Path) string {
	native := p.PathPart()
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(m.pipeline.BaseDir, native)
}

// RegisterObject, GetObject, and GetObjectId delegate to the keystore's
// bindings table (§4.4: "delegates to keystore").
func (m *Manager) RegisterObject(oid uint32, p *vpath.Path) error {
	return m.bindings.Register(oid, p.MakeString())
}

func (m *Manager) GetObject(oid uint32) (string, bool) {
	return m.bindings.Object(oid)
}

func (m *Manager) GetObjectId(p *vpath.Path) (uint32, bool) {
	return m.bindings.ObjectID(p.MakeString())
}

// GetKryptoPassword and UpdateKryptoPassword manage the configured global
// password file (§4.4).
func (m *Manager) GetKryptoPassword(buf []byte) (int, error) {
	path, ok := m.pwFilePath()
	if !ok {
		return 0, rc.New(rc.ObjectEncryptionKey, "manager.GetKryptoPassword", rc.CauseNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, rc.Wrap(err, rc.ObjectFile, "manager.GetKryptoPassword", rc.CauseNotFound)
	}
	data = trimToFirstNewline(data)
	if len(data) > len(buf) {
		return 0, rc.New(rc.ObjectBuffer, "manager.GetKryptoPassword", rc.CauseInsufficient)
	}
	return copy(buf, data), nil
}

// UpdateKryptoPassword implements §4.4's atomic password-file rewrite: a
// staging file is written and renamed over the original, the previous
// password is retained as a second line when it differs from the new one
// (so a reader mid-rotation can still try the old key), and the
// containing directory's mode is checked against the 0750 ceiling before
// any of this is attempted.
func (m *Manager) UpdateKryptoPassword(pw []byte) error {
	path, ok := m.pwFilePath()
	if !ok {
		return rc.New(rc.ObjectEncryptionKey, "manager.UpdateKryptoPassword", rc.CauseNotFound)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return rc.Wrap(err, rc.ObjectDirectory, "manager.UpdateKryptoPassword", rc.CauseNotFound)
	}
	if info.Mode().Perm()&^0o750 != 0 {
		return rc.New(rc.ObjectDirectory, "manager.UpdateKryptoPassword", rc.CauseUnexpected)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	newPw := trimToFirstNewline(pw)
	old, _ := os.ReadFile(path)
	oldPw := trimToFirstNewline(old)

	out := make([]byte, 0, len(newPw)+len(oldPw)+1)
	out = append(out, newPw...)
	if len(oldPw) > 0 && !bytes.Equal(oldPw, newPw) {
		out = append(out, '\n')
		out = append(out, oldPw...)
	}

	if err := atomicfile.Write(path, out, 0o600); err != nil {
		return rc.Wrap(err, rc.ObjectFile, "manager.UpdateKryptoPassword", rc.CauseUnexpected)
	}
	return nil
}

func (m *Manager) pwFilePath() (string, bool) {
	if m.config == nil {
		return "", false
	}
	v, ok := m.config.Get("krypto/pwfile")
	return v, ok && v != ""
}

func trimToFirstNewline(data []byte) []byte {
	if i := bytes.IndexAny(data, "\n\r"); i >= 0 {
		data = data[:i]
	}
	return data
}
