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
	"strconv"
	"strings"

	"github.com/ncbi/vfscore/rc"
)

// MakeString reassembles the Path into a single string. A Path not parsed
// from a URI that has no query and no fragment is returned in its native
// form (the path alone, no scheme). Otherwise, when the input was parsed
// from a URI it reuses the original scheme text verbatim (for fidelity),
// and when it was not it synthesizes one per §4.2's table.
func (p *Path) MakeString() string {
	if !p.fromURI && p.Query() == "" && p.Fragment() == "" {
		return p.PathPart()
	}

	var b strings.Builder
	scheme, hasScheme := p.Scheme()
	if !hasScheme {
		scheme = p.synthesizeScheme()
	}

	b.WriteString(scheme)
	b.WriteString(":")

	if auth, ok := p.Auth(); ok {
		b.WriteString("//")
		b.WriteString(auth)
	} else if p.schemeType == SchemeNCBIFile && p.pathType == PathUNCPath {
		b.WriteString("//")
	}

	b.WriteString(p.PathPart())
	b.WriteString(p.Query())
	b.WriteString(p.Fragment())
	return b.String()
}

// synthesizeScheme derives a scheme for a Path that was not parsed from a
// URI, per §4.2's scheme-synthesis table.
func (p *Path) synthesizeScheme() string {
	switch p.pathType {
	case PathOID:
		return "ncbi-obj"
	case PathAccession, PathNameOrAccession:
		return "ncbi-acc"
	case PathName, PathRelPath, PathFullPath, PathUNCPath, PathNameOrOID:
		return "ncbi-file"
	default:
		return "file"
	}
}

// readInto copies up to len(buf) bytes of src into buf and reports how many
// bytes were copied. A zero return with a non-nil error signals truncation
// per §4.2 (rcBuffer/rcInsufficient), distinguishing "nothing to read" from
// "buffer too small".
func readInto(buf []byte, src string) (int, error) {
	if len(buf) < len(src) {
		return 0, rc.New(rc.ObjectBuffer, "read", rc.CauseInsufficient)
	}
	return copy(buf, src), nil
}

// ReadUri writes the full canonical URI form (MakeString's output) into buf.
func (p *Path) ReadUri(buf []byte) (int, error) {
	return readInto(buf, p.MakeString())
}

// ReadScheme writes the scheme text (original if parsed from a URI,
// synthesized otherwise, without the trailing ':') into buf.
func (p *Path) ReadScheme(buf []byte) (int, error) {
	scheme, ok := p.Scheme()
	if !ok {
		scheme = p.synthesizeScheme()
	}
	return readInto(buf, scheme)
}

// ReadAuth writes the authority substring (without "//") into buf.
func (p *Path) ReadAuth(buf []byte) (int, error) {
	auth, _ := p.Auth()
	return readInto(buf, auth)
}

// ReadHost writes the host substring (without brackets) into buf.
func (p *Path) ReadHost(buf []byte) (int, error) {
	host, _ := p.Host()
	return readInto(buf, host)
}

// ReadPortName writes the raw port text into buf.
func (p *Path) ReadPortName(buf []byte) (int, error) {
	port, _ := p.PortName()
	return readInto(buf, port)
}

// ReadPath writes the hierarchical path portion into buf.
func (p *Path) ReadPath(buf []byte) (int, error) {
	return readInto(buf, p.PathPart())
}

// ReadQuery writes the raw query substring (including the leading '?') into
// buf.
func (p *Path) ReadQuery(buf []byte) (int, error) {
	return readInto(buf, p.Query())
}

// ReadFragment writes the raw fragment substring (including the leading
// '#') into buf.
func (p *Path) ReadFragment(buf []byte) (int, error) {
	return readInto(buf, p.Fragment())
}

// Serialize is an alias for MakeString kept for callers that prefer the
// verb form (the teacher's IRI type exposes both Serialize and String).
func (p *Path) Serialize() string { return p.MakeString() }

func (p *Path) String() string { return p.MakeString() }

// portString renders the numeric port, if any, back to text ("" when
// PortNum() is 0). Nothing in the module calls it.
func (p *Path) portString() string {
	if p.portNum == 0 {
		return ""
	}
	return strconv.Itoa(p.portNum)
}
