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

package resolver

import (
	"path/filepath"
	"strings"

	"github.com/ncbi/vfscore/rc"
	"github.com/ncbi/vfscore/vpath"
)

// Flags controls resolution policy (§4.3).
type Flags uint8

const (
	// FlagNoAcc disables all accession resolution.
	FlagNoAcc Flags = 1 << iota
	// FlagNoAccLocal skips the oracle's Local lookup.
	FlagNoAccLocal
	// FlagNoAccRemote skips the oracle's Remote lookup.
	FlagNoAccRemote
	// FlagKDBAcc treats a scheme-less, slash-free name as an accession
	// candidate even without an explicit ncbi-acc scheme.
	FlagKDBAcc
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Result is what Resolve/ResolveRelative hand back: the concrete Path to
// open, and an optional cache location the open pipeline should pair with
// it.
type Result struct {
	Path     vpath.Path
	Cache    vpath.Path
	HasCache bool
}

// Facade is the resolver facade (D). A nil Oracle is valid: with no oracle
// attached, accession resolution is a no-op and http/ftp Paths pass through
// unchanged, per §4.3's "no resolver attached" clause.
type Facade struct {
	Oracle Oracle
}

// New constructs a Facade wired to oracle (which may be nil).
func New(oracle Oracle) *Facade {
	return &Facade{Oracle: oracle}
}

// Resolve implements ResolvePath (§4.4): given flags and a parsed Path, it
// produces the concrete location to open.
func (f *Facade) Resolve(flags Flags, p *vpath.Path) (Result, error) {
	if p == nil {
		return Result{}, rc.New(rc.ObjectPath, "resolve", rc.CauseNull)
	}

	if f.isAccessionCandidate(flags, p) {
		return f.resolveAccession(flags, p)
	}

	switch p.SchemeType() {
	case vpath.SchemeHTTP, vpath.SchemeHTTPS, vpath.SchemeFTP, vpath.SchemeFASP:
		result := Result{Path: *p}
		if f.Oracle != nil {
			if cache, found, err := f.Oracle.Cache(p.PathPart()); err != nil {
				return Result{}, err
			} else if found {
				result.Cache = cache
				result.HasCache = true
			}
		}
		return result, nil
	default:
		return Result{Path: *p}, nil
	}
}

// ResolveRelative implements ResolvePathRelative (§4.4). §9's design
// note flags the source's defect here — it tests `out_path == NULL` but
// keeps going; this port fails fast instead, by construction (a nil *Path
// simply cannot reach the caller: Resolve/ResolveRelative always return
// either a populated Result or a non-nil error).
func (f *Facade) ResolveRelative(flags Flags, base string, p *vpath.Path) (Result, error) {
	if p == nil {
		return Result{}, rc.New(rc.ObjectPath, "resolve", rc.CauseNull)
	}

	switch p.SchemeType() {
	case vpath.SchemeFile, vpath.SchemeNCBIVFS, vpath.SchemeNone:
		switch p.PathType() {
		case vpath.PathRelPath, vpath.PathName, vpath.PathNameOrOID, vpath.PathNameOrAccession:
			abs := filepath.Join(base, p.PathPart())
			resolved, err := vpath.Parse(abs)
			if err != nil {
				return Result{}, err
			}
			return Result{Path: *resolved}, nil
		}
	}
	return f.Resolve(flags, p)
}

// isAccessionCandidate reports whether p should go through oracle-based
// accession resolution under flags (§4.3: ncbi_acc Paths, or scheme-less
// slash-free names when kdb_acc is set).
func (f *Facade) isAccessionCandidate(flags Flags, p *vpath.Path) bool {
	if flags.has(FlagNoAcc) {
		return false
	}
	if p.SchemeType() == vpath.SchemeNCBIAcc {
		return true
	}
	if flags.has(FlagKDBAcc) && p.SchemeType() == vpath.SchemeNone && !strings.ContainsRune(p.PathPart(), '/') {
		return true
	}
	return false
}

// resolveAccession implements §4.3's accession resolution policy: the
// oracle guarantees at most one of (local, remote) is produced for a given
// accession, and the facade asserts that invariant and forwards whichever
// is non-null. FlagNoAccLocal/FlagNoAccRemote each suppress their half of
// the query before the oracle is even asked.
func (f *Facade) resolveAccession(flags Flags, p *vpath.Path) (Result, error) {
	if f.Oracle == nil {
		return Result{Path: *p}, nil
	}
	name := p.PathPart()

	var local, remote vpath.Path
	var foundLocal, foundRemote bool

	if !flags.has(FlagNoAccLocal) {
		var err error
		local, foundLocal, err = f.Oracle.Local(name)
		if err != nil {
			return Result{}, err
		}
	}
	if !flags.has(FlagNoAccRemote) {
		var err error
		remote, foundRemote, err = f.Oracle.Remote(name, "http")
		if err != nil {
			return Result{}, err
		}
	}

	switch {
	case foundLocal && foundRemote:
		return Result{}, rc.ErrAmbiguousResolution
	case foundLocal:
		return Result{Path: local}, nil
	case !foundRemote:
		return Result{}, rc.New(rc.ObjectPath, "resolve", rc.CauseNotFound)
	}

	result := Result{Path: remote}
	if cache, foundCache, err := f.Oracle.Cache(name); err != nil {
		return Result{}, err
	} else if foundCache {
		result.Cache = cache
		result.HasCache = true
	}
	return result, nil
}
