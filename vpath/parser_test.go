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

package vpath

import (
	"errors"
	"testing"

	"github.com/ncbi/vfscore/rc"
)

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse("")
	if !errors.Is(err, rc.New(rc.ObjectString, "", rc.CauseEmpty)) {
		t.Fatalf("want rcString/rcEmpty, got %v", err)
	}
}

func TestParseSchemeOnly(t *testing.T) {
	_, err := Parse("a:")
	if !errors.Is(err, rc.New(rc.ObjectData, "", rc.CauseInsufficient)) {
		t.Fatalf("want rcData/rcInsufficient, got %v", err)
	}
}

func TestParseSchemeAuthorityTruncated(t *testing.T) {
	_, err := Parse("file://")
	if !errors.Is(err, rc.New(rc.ObjectData, "", rc.CauseInsufficient)) {
		t.Fatalf("want rcData/rcInsufficient, got %v", err)
	}
}

func TestParseIPv4Excessive(t *testing.T) {
	_, err := Parse("http://256.1.1.1/x")
	if !errors.Is(err, rc.New(rc.ObjectData, "", rc.CauseExcessive)) {
		t.Fatalf("want rcData/rcExcessive, got %v", err)
	}
}

func TestParseIPv6GroupExcessive(t *testing.T) {
	_, err := Parse("http://[FFFFF::1]/x")
	if !errors.Is(err, rc.New(rc.ObjectData, "", rc.CauseExcessive)) {
		t.Fatalf("want rcData/rcExcessive, got %v", err)
	}
}

func TestParsePortExcessive(t *testing.T) {
	_, err := Parse("http://example.org:70000/x")
	if !errors.Is(err, rc.New(rc.ObjectData, "", rc.CauseExcessive)) {
		t.Fatalf("want rcData/rcExcessive, got %v", err)
	}
}

func TestParseOIDTooLong(t *testing.T) {
	p, err := Parse("ncbi-obj:12345678901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PathType() != PathName {
		t.Fatalf("want Name for an over-long digit run, got %v", p.PathType())
	}
}

// Scenario 1 (§8): "SRR001656" is a bare accession.
func TestScenarioBareAccession(t *testing.T) {
	p, err := Parse("SRR001656")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SchemeType() != SchemeNone {
		t.Fatalf("want scheme_type=none, got %v", p.SchemeType())
	}
	if p.PathType() != PathAccession {
		t.Fatalf("want path_type=Accession, got %v", p.PathType())
	}
	code, ok := p.AccCode()
	if !ok {
		t.Fatalf("want acc_code populated")
	}
	if code.Alpha() != 3 || code.Digit() != 6 {
		t.Fatalf("want shape (alpha=3, digit=6), got (alpha=%d, digit=%d)", code.Alpha(), code.Digit())
	}
}

// Scenario 2 (§8): ncbi-file full path with a bare "enc" query flag.
func TestScenarioNcbiFileFullPathQuery(t *testing.T) {
	p, err := Parse("ncbi-file:/data/x.sra?enc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SchemeType() != SchemeNCBIFile {
		t.Fatalf("want scheme_type=ncbi_file, got %v", p.SchemeType())
	}
	if p.PathType() != PathFullPath {
		t.Fatalf("want path_type=FullPath, got %v", p.PathType())
	}
	var buf [64]byte
	n, ok, err := p.ReadParam(buf[:], "enc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("want ReadParam(\"enc\") present")
	}
	if string(buf[:n]) != "" {
		t.Fatalf("want empty value for bare flag \"enc\", got %q", string(buf[:n]))
	}
}

// Scenario 3 (§8): https with explicit port, query and fragment; serialization
// must round-trip byte-identical.
func TestScenarioHTTPSRoundTrip(t *testing.T) {
	const s = "https://example.org:8080/a?x=1#frag"
	p, err := Parse(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SchemeType() != SchemeHTTPS {
		t.Fatalf("want scheme_type=https, got %v", p.SchemeType())
	}
	host, _ := p.Host()
	if host != "example.org" {
		t.Fatalf("want host=example.org, got %q", host)
	}
	if p.PortNum() != 8080 {
		t.Fatalf("want port_num=8080, got %d", p.PortNum())
	}
	if p.Query() != "?x=1" {
		t.Fatalf("want query=?x=1, got %q", p.Query())
	}
	if p.Fragment() != "#frag" {
		t.Fatalf("want fragment=#frag, got %q", p.Fragment())
	}
	if got := p.MakeString(); got != s {
		t.Fatalf("want byte-identical serialization %q, got %q", s, got)
	}
}

// Scenario 4 (§8): ncbi-obj OID.
func TestScenarioNcbiObjOID(t *testing.T) {
	p, err := Parse("ncbi-obj:42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SchemeType() != SchemeNCBIObj {
		t.Fatalf("want scheme_type=ncbi_obj, got %v", p.SchemeType())
	}
	if p.PathType() != PathOID {
		t.Fatalf("want path_type=OID, got %v", p.PathType())
	}
	if p.ObjID() != 42 {
		t.Fatalf("want obj_id=42, got %d", p.ObjID())
	}
}

// Scenario 5 (§8): bracketed IPv6 authority with a port, no scheme.
func TestScenarioBareIPv6Authority(t *testing.T) {
	p, err := Parse("[::1]:80")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.HostType() != HostIPv6 {
		t.Fatalf("want host_type=IPv6, got %v", p.HostType())
	}
	groups := p.IPv6()
	if groups[7] != 1 {
		t.Fatalf("want ipv6[7]=1, got %d", groups[7])
	}
	if p.PortNum() != 80 {
		t.Fatalf("want port_num=80, got %d", p.PortNum())
	}
}

func TestParseRelPath(t *testing.T) {
	p, err := Parse("data/reads/x.sra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PathType() != PathRelPath {
		t.Fatalf("want path_type=RelPath, got %v", p.PathType())
	}
}

func TestParseFullPath(t *testing.T) {
	p, err := Parse("/data/reads/x.sra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PathType() != PathFullPath {
		t.Fatalf("want path_type=FullPath, got %v", p.PathType())
	}
}

func TestParseUNCPath(t *testing.T) {
	p, err := Parse("ncbi-file:////host/share/x.sra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PathType() != PathUNCPath {
		t.Fatalf("want path_type=UNCPath, got %v", p.PathType())
	}
}

func TestParseNameOrAccessionStaysUnupgraded(t *testing.T) {
	// A single letter followed by a single digit is accession-shaped but not
	// one of the recognized upgrade-worthy families.
	p, err := Parse("x1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PathType() != PathNameOrAccession {
		t.Fatalf("want path_type=NameOrAccession, got %v", p.PathType())
	}
}

func TestParseStrayColonInNameIsError(t *testing.T) {
	_, err := Parse("9x:reads")
	if err == nil {
		t.Fatalf("want error for stray ':' in name-only context")
	}
}

func TestRoundTripSemantics(t *testing.T) {
	cases := []string{
		"SRR001656",
		"ncbi-file:/data/x.sra?enc",
		"https://example.org:8080/a?x=1#frag",
		"ncbi-obj:42",
		"/data/reads/x.sra",
	}
	for _, s := range cases {
		p, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		out := p.MakeString()
		p2, err := Parse(out)
		if err != nil {
			t.Fatalf("re-parse of serialized %q: %v", out, err)
		}
		if p.SchemeType() != p2.SchemeType() {
			t.Fatalf("round-trip scheme_type mismatch for %q: %v vs %v", s, p.SchemeType(), p2.SchemeType())
		}
		if p.PathType() != p2.PathType() {
			t.Fatalf("round-trip path_type mismatch for %q: %v vs %v", s, p.PathType(), p2.PathType())
		}
		code1, ok1 := p.AccCode()
		code2, ok2 := p2.AccCode()
		if ok1 != ok2 || code1 != code2 {
			t.Fatalf("round-trip acc_code mismatch for %q: (%v,%v) vs (%v,%v)", s, code1, ok1, code2, ok2)
		}
		if out2 := p2.MakeString(); out2 != out {
			t.Fatalf("round-trip serialization mismatch for %q: %q vs %q", s, out, out2)
		}
	}
}
