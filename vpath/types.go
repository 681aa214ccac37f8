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

// Package vpath implements the classified Path value, its single-pass
// parser, and its serializer — the triad the rest of the module is built
// around. A Path is immutable once constructed: every accessor slices the
// single string the Path was parsed from, the way the teacher IRI parser's
// Positions table slices its source string instead of copying components.
package vpath

// SchemeType classifies the recognized scheme of a parsed Path.
type SchemeType int

const (
	SchemeNone SchemeType = iota
	SchemeFile
	SchemeNCBIFile
	SchemeNCBIVFS
	SchemeNCBIAcc
	SchemeNCBIObj
	SchemeNCBILegacyRefseq
	SchemeHTTP
	SchemeHTTPS
	SchemeFTP
	SchemeFASP
	SchemeNotSupported
	SchemeInvalid
)

func (s SchemeType) String() string {
	switch s {
	case SchemeNone:
		return "none"
	case SchemeFile:
		return "file"
	case SchemeNCBIFile:
		return "ncbi-file"
	case SchemeNCBIVFS:
		return "ncbi-vfs"
	case SchemeNCBIAcc:
		return "ncbi-acc"
	case SchemeNCBIObj:
		return "ncbi-obj"
	case SchemeNCBILegacyRefseq:
		return "x-ncbi-legrefseq"
	case SchemeHTTP:
		return "http"
	case SchemeHTTPS:
		return "https"
	case SchemeFTP:
		return "ftp"
	case SchemeFASP:
		return "fasp"
	case SchemeNotSupported:
		return "not_supported"
	default:
		return "invalid"
	}
}

// schemeTable maps the recognized lower-cased scheme text (§4.1) to its
// SchemeType. Any scheme not present here still parses, but classifies as
// SchemeNotSupported.
var schemeTable = map[string]SchemeType{
	"file":             SchemeFile,
	"http":             SchemeHTTP,
	"https":            SchemeHTTPS,
	"ftp":              SchemeFTP,
	"fasp":             SchemeFASP,
	"ncbi-acc":         SchemeNCBIAcc,
	"ncbi-obj":         SchemeNCBIObj,
	"ncbi-file":        SchemeNCBIFile,
	"ncbi-vfs":         SchemeNCBIVFS,
	"x-ncbi-legrefseq": SchemeNCBILegacyRefseq,
}

// PathType classifies the hierarchical portion of a parsed Path.
type PathType int

const (
	PathInvalid PathType = iota
	PathOID
	PathAccession
	PathNameOrOID
	PathNameOrAccession
	PathName
	PathRelPath
	PathFullPath
	PathUNCPath
	PathHostName
	PathEndpoint
	PathAuth
)

func (t PathType) String() string {
	switch t {
	case PathOID:
		return "OID"
	case PathAccession:
		return "Accession"
	case PathNameOrOID:
		return "NameOrOID"
	case PathNameOrAccession:
		return "NameOrAccession"
	case PathName:
		return "Name"
	case PathRelPath:
		return "RelPath"
	case PathFullPath:
		return "FullPath"
	case PathUNCPath:
		return "UNCPath"
	case PathHostName:
		return "HostName"
	case PathEndpoint:
		return "Endpoint"
	case PathAuth:
		return "Auth"
	default:
		return "Invalid"
	}
}

// HostType classifies the authority's host component.
type HostType int

const (
	HostNone HostType = iota
	HostDNS
	HostIPv4
	HostIPv6
)

func (h HostType) String() string {
	switch h {
	case HostDNS:
		return "DNS"
	case HostIPv4:
		return "IPv4"
	case HostIPv6:
		return "IPv6"
	default:
		return "none"
	}
}

// AccCode packs the accession shape tuple (prefix, alpha, digit, ext,
// suffix) the way §3's 20-bit layout describes:
//
//	(prefix<<16) | (alpha<<12) | (digit<<8) | (ext<<4) | suffix
//
// Each field is a nibble-ish count clamped to 4 bits (0-15); counts beyond
// that saturate at 15, which is sufficient to distinguish the shapes in the
// decision table (none of them need to count past single digits).
type AccCode uint32

// PackAccCode builds an AccCode from its component counts.
func PackAccCode(prefix, alpha, digit, ext, suffix int) AccCode {
	return AccCode(clamp4(prefix))<<16 | AccCode(clamp4(alpha))<<12 |
		AccCode(clamp4(digit))<<8 | AccCode(clamp4(ext))<<4 | AccCode(clamp4(suffix))
}

func clamp4(n int) int {
	if n < 0 {
		return 0
	}
	if n > 0xF {
		return 0xF
	}
	return n
}

// Prefix, Alpha, Digit, Ext and Suffix decompose a packed AccCode back into
// its component counts.
func (c AccCode) Prefix() int { return int((c >> 16) & 0xF) }
func (c AccCode) Alpha() int  { return int((c >> 12) & 0xF) }
func (c AccCode) Digit() int  { return int((c >> 8) & 0xF) }
func (c AccCode) Ext() int    { return int((c >> 4) & 0xF) }
func (c AccCode) Suffix() int { return int(c & 0xF) }

// positions records the byte offsets of every component boundary within the
// original input string, generalizing the teacher's 4-field Positions table
// to the full grammar this spec requires. A zero-value positions means "no
// component recognized yet"; every offset is relative to Path.raw.
type positions struct {
	schemeEnd    int // end of "scheme:" (0 if no scheme)
	authStart    int // start of authority, i.e. past "//" (== schemeEnd if no authority)
	userEnd      int // end of "user@" within authority (== authStart if no userinfo)
	hostStart    int
	hostEnd      int
	portStart    int // start of port digits/name (== hostEnd if no port)
	portEnd      int
	authorityEnd int // end of authority == start of path
	pathEnd      int
	queryEnd     int // end of query (== pathEnd if no query); fragment, if any, starts at queryEnd
}

// Path is the immutable classified representation of a URI, native path, or
// accession string (§3). All string-valued accessors are slices of raw;
// nothing is copied during parsing.
type Path struct {
	raw     string
	fromURI bool

	schemeType SchemeType
	scheme     string // original scheme text, for serialization fidelity

	hostType    HostType
	ipv4        uint32
	ipv6        [8]uint16
	missingPort bool
	portNum     int

	pathType PathType
	objID    uint32
	accCode  AccCode
	hasAcc   bool

	pos positions

	invalid    bool
	invalidErr error
}

// FromURI reports whether the input contained a scheme.
func (p *Path) FromURI() bool { return p.fromURI }

// SchemeType returns the classified scheme variant.
func (p *Path) SchemeType() SchemeType { return p.schemeType }

// PathType returns the classified hierarchical-portion variant.
func (p *Path) PathType() PathType { return p.pathType }

// HostType returns the classified host variant.
func (p *Path) HostType() HostType { return p.hostType }

// ObjID returns the decoded object id. Valid only when PathType is PathOID
// or PathNameOrOID.
func (p *Path) ObjID() uint32 { return p.objID }

// AccCode returns the packed accession-shape code and whether the parser
// terminated in an accession-shaped state (§3's invariant: acc_code is
// populated only then).
func (p *Path) AccCode() (AccCode, bool) { return p.accCode, p.hasAcc }

// IPv4 returns the packed 32-bit IPv4 address. Valid only when HostType is
// HostIPv4.
func (p *Path) IPv4() uint32 { return p.ipv4 }

// IPv6 returns the 8x16-bit IPv6 group array. Valid only when HostType is
// HostIPv6.
func (p *Path) IPv6() [8]uint16 { return p.ipv6 }

// PortNum returns the numeric port, or 0 if none/non-numeric.
func (p *Path) PortNum() int { return p.portNum }

// MissingPort reports whether a host was present with a trailing ':' but no
// following digits (distinct from "no port at all").
func (p *Path) MissingPort() bool { return p.missingPort }

// Invalid reports whether this Path rejects all reads (§3's invariant).
func (p *Path) Invalid() bool { return p.invalid }

// InvalidErr returns the reason the Path is invalid, or nil.
func (p *Path) InvalidErr() error { return p.invalidErr }

// Scheme returns the original scheme text exactly as it appeared in the
// input, for serialization fidelity (the scheme_type enum loses case and
// maps unrecognized schemes to a single bucket).
func (p *Path) Scheme() (string, bool) {
	if p.pos.schemeEnd == 0 {
		return "", false
	}
	return p.scheme, true
}

// Auth returns the full authority substring (userinfo@host:port), without
// the leading "//".
func (p *Path) Auth() (string, bool) {
	if p.pos.authorityEnd <= p.pos.authStart {
		return "", false
	}
	return p.raw[p.pos.authStart:p.pos.authorityEnd], true
}

// Host returns the host substring (without brackets for IPv6 literals).
func (p *Path) Host() (string, bool) {
	if p.pos.hostEnd <= p.pos.hostStart {
		return "", false
	}
	return p.raw[p.pos.hostStart:p.pos.hostEnd], true
}

// PortName returns the raw port substring (may be non-numeric in a
// service-name authority, e.g. "ftp://host:ftp-data/").
func (p *Path) PortName() (string, bool) {
	if p.pos.portEnd <= p.pos.portStart {
		return "", false
	}
	return p.raw[p.pos.portStart:p.pos.portEnd], true
}

// PathPart returns the hierarchical path portion.
func (p *Path) PathPart() string {
	return p.raw[p.pos.authorityEnd:p.pos.pathEnd]
}

// Query returns the raw query substring including the leading '?', or "".
func (p *Path) Query() string {
	if p.pos.queryEnd <= p.pos.pathEnd {
		return ""
	}
	return p.raw[p.pos.pathEnd:p.pos.queryEnd]
}

// Fragment returns the raw fragment substring including the leading '#', or
// "".
func (p *Path) Fragment() string {
	if p.pos.queryEnd >= len(p.raw) {
		return ""
	}
	return p.raw[p.pos.queryEnd:]
}

// Raw returns the exact string the Path was parsed from.
func (p *Path) Raw() string { return p.raw }
