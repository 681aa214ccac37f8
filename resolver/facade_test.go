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
	"errors"
	"testing"

	"github.com/ncbi/vfscore/rc"
	"github.com/ncbi/vfscore/vpath"
)

type stubOracle struct {
	localPath    vpath.Path
	localFound   bool
	localErr     error
	remotePath   vpath.Path
	remoteFound  bool
	remoteErr    error
	cachePath    vpath.Path
	cacheFound   bool
	cacheErr     error
	localCalled  bool
	remoteCalled bool
}

func (s *stubOracle) Local(name string) (vpath.Path, bool, error) {
	s.localCalled = true
	return s.localPath, s.localFound, s.localErr
}

func (s *stubOracle) Remote(name, protocol string) (vpath.Path, bool, error) {
	s.remoteCalled = true
	return s.remotePath, s.remoteFound, s.remoteErr
}

func (s *stubOracle) Cache(name string) (vpath.Path, bool, error) {
	return s.cachePath, s.cacheFound, s.cacheErr
}

func mustParse(t *testing.T, s string) *vpath.Path {
	t.Helper()
	p, err := vpath.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return p
}

func TestResolveLocalHit(t *testing.T) {
	oracle := &stubOracle{localFound: true, localPath: *mustParse(t, "/repo/SRR001656.sra")}
	f := New(oracle)
	p := mustParse(t, "ncbi-acc:SRR001656")

	res, err := f.Resolve(0, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !oracle.localCalled || oracle.remoteCalled {
		t.Fatalf("want only Local consulted, got local=%v remote=%v", oracle.localCalled, oracle.remoteCalled)
	}
	if res.Path.PathPart() != "/repo/SRR001656.sra" {
		t.Fatalf("unexpected resolved path: %q", res.Path.PathPart())
	}
}

func TestResolveRemoteFallback(t *testing.T) {
	oracle := &stubOracle{
		localFound:  false,
		remoteFound: true,
		remotePath:  *mustParse(t, "https://sra-download.example.org/SRR001656"),
	}
	f := New(oracle)
	p := mustParse(t, "ncbi-acc:SRR001656")

	res, err := f.Resolve(0, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Path.PathPart() != "/SRR001656" {
		t.Fatalf("unexpected resolved path: %q", res.Path.PathPart())
	}
}

func TestResolveAmbiguousWhenBothFound(t *testing.T) {
	oracle := &stubOracle{
		localFound:  true,
		localPath:   *mustParse(t, "/repo/SRR001656.sra"),
		remoteFound: true,
		remotePath:  *mustParse(t, "https://sra-download.example.org/SRR001656"),
	}
	f := New(oracle)
	p := mustParse(t, "ncbi-acc:SRR001656")

	_, err := f.Resolve(0, p)
	if !errors.Is(err, rc.ErrAmbiguousResolution) {
		t.Fatalf("want ErrAmbiguousResolution, got %v", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	oracle := &stubOracle{}
	f := New(oracle)
	p := mustParse(t, "ncbi-acc:SRR001656")

	_, err := f.Resolve(0, p)
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseNotFound {
		t.Fatalf("want CauseNotFound, got %v", err)
	}
}

func TestResolveFlagNoAccSkipsOracle(t *testing.T) {
	oracle := &stubOracle{}
	f := New(oracle)
	p := mustParse(t, "ncbi-acc:SRR001656")

	res, err := f.Resolve(FlagNoAcc, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oracle.localCalled || oracle.remoteCalled {
		t.Fatalf("want oracle untouched under FlagNoAcc")
	}
	if res.Path.PathPart() != "SRR001656" {
		t.Fatalf("want the accession path passed through unchanged, got %q", res.Path.PathPart())
	}
}

func TestResolveFlagNoAccRemoteSuppressesFallback(t *testing.T) {
	oracle := &stubOracle{remoteFound: true, remotePath: *mustParse(t, "https://example.org/SRR001656")}
	f := New(oracle)
	p := mustParse(t, "ncbi-acc:SRR001656")

	_, err := f.Resolve(FlagNoAccRemote, p)
	if oracle.remoteCalled {
		t.Fatalf("want Remote not consulted under FlagNoAccRemote")
	}
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseNotFound {
		t.Fatalf("want CauseNotFound, got %v", err)
	}
}

func TestResolveNoOracleIsPassthrough(t *testing.T) {
	f := New(nil)
	p := mustParse(t, "ncbi-acc:SRR001656")

	res, err := f.Resolve(0, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Path.PathPart() != "SRR001656" {
		t.Fatalf("want passthrough of the original path, got %q", res.Path.PathPart())
	}
}

func TestResolveHTTPPassthroughWithCache(t *testing.T) {
	oracle := &stubOracle{cacheFound: true, cachePath: *mustParse(t, "/cache/x.sra")}
	f := New(oracle)
	p := mustParse(t, "https://example.org/x.sra")

	res, err := f.Resolve(0, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HasCache || res.Cache.PathPart() != "/cache/x.sra" {
		t.Fatalf("want a cache location attached, got %+v", res)
	}
}

func TestResolveRelativeJoinsBase(t *testing.T) {
	f := New(nil)
	p := mustParse(t, "reads/x.sra")

	res, err := f.ResolveRelative(0, "/repo", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Path.PathPart() != "/repo/reads/x.sra" {
		t.Fatalf("unexpected joined path: %q", res.Path.PathPart())
	}
}

func TestResolveRelativeNilPathErrors(t *testing.T) {
	f := New(nil)
	_, err := f.ResolveRelative(0, "/repo", nil)
	var rerr *rc.Error
	if !errors.As(err, &rerr) || rerr.Cause != rc.CauseNull {
		t.Fatalf("want CauseNull for a nil path, got %v", err)
	}
}

func TestKDBAccTreatsBareNameAsAccession(t *testing.T) {
	oracle := &stubOracle{localFound: true, localPath: *mustParse(t, "/repo/SRR001656.sra")}
	f := New(oracle)
	p := mustParse(t, "SRR001656")

	res, err := f.Resolve(FlagKDBAcc, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !oracle.localCalled {
		t.Fatalf("want oracle consulted under FlagKDBAcc for a bare, slash-free name")
	}
	if res.Path.PathPart() != "/repo/SRR001656.sra" {
		t.Fatalf("unexpected resolved path: %q", res.Path.PathPart())
	}
}
