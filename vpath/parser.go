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

// maxOIDDigits bounds the digit run §4.1 accepts for an "ncbi-obj:" object
// id before falling back to Name.
const maxOIDDigits = 10

// Parse runs the single-pass state machine over s (§4.1/§4.7) and returns
// the classified, immutable Path. It never allocates beyond the returned
// Path and its slices of s; on any structural problem it returns a typed
// *rc.Error and no Path, per §4.1's "no partial success" rule.
func Parse(s string) (*Path, error) {
	if s == "" {
		return nil, rc.New(rc.ObjectString, "parse", rc.CauseEmpty)
	}

	p := &Path{raw: s}

	schemeText, afterColon, hasScheme, err := scanScheme(s)
	if err != nil {
		return nil, err
	}

	if hasScheme {
		p.fromURI = true
		p.scheme = schemeText
		p.schemeType = classifyScheme(schemeText)
		p.pos.schemeEnd = afterColon
		p.pos.authStart = afterColon
		p.pos.authorityEnd = afterColon

		rest := s[afterColon:]
		if rest == "" {
			return nil, rc.New(rc.ObjectData, "parse", rc.CauseInsufficient)
		}
		if rest == "//" {
			return nil, rc.New(rc.ObjectData, "parse", rc.CauseInsufficient)
		}

		if strings.HasPrefix(rest, "//") {
			if err := p.parseAuthority(afterColon + 2); err != nil {
				return nil, err
			}
		} else {
			p.pos.authorityEnd = afterColon
		}

		if err := p.parsePathQueryFragment(p.pos.authorityEnd); err != nil {
			return nil, err
		}
		if err := p.classifyPathPart(); err != nil {
			return nil, err
		}
		return p, nil
	}

	// No scheme: accession, POSIX path, or a bare authority-shaped string
	// (host, host:port, user@host, [ipv6]:port).
	p.pos.authStart = 0
	p.pos.authorityEnd = 0

	if strings.HasPrefix(s, "/") {
		if err := p.parsePathQueryFragment(0); err != nil {
			return nil, err
		}
		p.pathType = PathFullPath
		return p, nil
	}

	if err := p.parsePathQueryFragment(0); err != nil {
		return nil, err
	}
	if err := p.classifyPathPart(); err != nil {
		return nil, err
	}
	return p, nil
}

// scanScheme detects a leading "scheme:" per §4.1's grammar
// (scheme := [A-Za-z][A-Za-z0-9+.-]*). It returns the scheme text, the byte
// offset just past the colon, and whether one was found. A bare ':' as the
// very first character is always an error (errNoScheme in the teacher's
// vocabulary).
func scanScheme(s string) (string, int, bool, error) {
	if s[0] == ':' {
		return "", 0, false, rc.New(rc.ObjectChar, "scheme", rc.CauseUnexpected)
	}
	if !isASCIILetter(rune(s[0])) {
		return "", 0, false, nil
	}
	for i := 1; i < len(s); i++ {
		c := rune(s[i])
		switch {
		case isSchemeChar(c):
			continue
		case c == ':':
			return s[:i], i + 1, true, nil
		default:
			return "", 0, false, nil
		}
	}
	return "", 0, false, nil
}

func classifyScheme(scheme string) SchemeType {
	if st, ok := schemeTable[strings.ToLower(scheme)]; ok {
		return st
	}
	return SchemeNotSupported
}

// parseAuthority consumes the authority component starting at byte offset
// start (just past "scheme://"), filling host/port/userinfo positions.
func (p *Path) parseAuthority(start int) error {
	s := p.raw
	end := len(s)
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '/', '?', '#':
			end = i
		}
		if end != len(s) {
			break
		}
	}
	authorityStr := s[start:end]

	// UNC detection: "ncbi-file://" with nothing in the authority slot and
	// the remainder itself starting with "//" (§4.1: double '/' after
	// "ncbi-file:" specifically).
	if p.schemeType == SchemeNCBIFile && authorityStr == "" && strings.HasPrefix(s[end:], "//") {
		p.pos.authStart = start
		p.pos.authorityEnd = start
		return nil
	}

	p.pos.authStart = start
	p.pos.hostStart = start
	p.pos.hostEnd = start
	p.pos.portStart = end
	p.pos.portEnd = end

	if authorityStr != "" {
		userinfo, hostToken, portText, hasUser := splitAuthorityStr(authorityStr)
		off := start
		if hasUser {
			p.pos.userEnd = off + len(userinfo) + 1
			off += len(userinfo) + 1
		} else {
			p.pos.userEnd = start
		}

		p.pos.hostStart = off
		hostForClassify := hostToken
		bracketed := strings.HasPrefix(hostToken, "[") && strings.HasSuffix(hostToken, "]")
		if bracketed {
			p.pos.hostStart = off + 1
			p.pos.hostEnd = off + len(hostToken) - 1
		} else {
			p.pos.hostEnd = off + len(hostToken)
		}
		off += len(hostToken)

		if hostForClassify != "" {
			ht, v4, v6, err := classifyHost(hostForClassify)
			if err != nil {
				return err
			}
			p.hostType = ht
			p.ipv4 = v4
			p.ipv6 = v6
		}

		if portText != "" {
			off++ // ':'
			p.pos.portStart = off
			p.pos.portEnd = off + len(portText)
			if err := p.setPort(portText); err != nil {
				return err
			}
		} else if strings.HasSuffix(authorityStr, ":") {
			p.missingPort = true
		}
	}

	p.pos.authorityEnd = end
	return nil
}

// setPort validates and records the port component. Non-numeric port names
// (service names) are retained as text without a numeric value.
func (p *Path) setPort(portText string) error {
	allDigits := true
	for _, r := range portText {
		if !isASCIIDigit(r) {
			allDigits = false
			break
		}
	}
	if !allDigits {
		return nil
	}
	n, err := strconv.Atoi(portText)
	if err != nil || n > 65535 {
		return rc.New(rc.ObjectData, "port", rc.CauseExcessive)
	}
	p.portNum = n
	return nil
}

// splitAuthorityStr splits an authority string into userinfo, host token
// (brackets retained for IPv6 literals) and port text.
func splitAuthorityStr(authority string) (userinfo, host, port string, hasUser bool) {
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		userinfo = authority[:i]
		authority = authority[i+1:]
		hasUser = true
	}

	if strings.HasPrefix(authority, "[") {
		if end := strings.LastIndex(authority, "]"); end >= 0 {
			host = authority[:end+1]
			rest := authority[end+1:]
			if strings.HasPrefix(rest, ":") {
				port = rest[1:]
			}
			return
		}
	}

	if i := strings.LastIndex(authority, ":"); i >= 0 {
		host = authority[:i]
		port = authority[i+1:]
		return
	}
	host = authority
	return
}

// parsePathQueryFragment scans from byte offset start for the path, then an
// optional query and fragment, enforcing that ':' may not appear inside the
// path portion (§4.1: ':' is only legal at a scheme-colon or inside
// query/fragment).
func (p *Path) parsePathQueryFragment(start int) error {
	s := p.raw
	// A single trailing ":port" on a bare (no-scheme) authority-shaped
	// token (e.g. "[::1]:80", "example.org:8080") is legal; any other
	// colon in a name-only context is not (§4.1).
	allowColon := !p.fromURI && looksLikeBareHostPort(s[start:])

	i := start
	for i < len(s) {
		switch s[i] {
		case '?', '#':
			goto pathDone
		case ':':
			if !allowColon {
				return rc.New(rc.ObjectChar, "path", rc.CauseUnexpected)
			}
		}
		i++
	}
pathDone:
	p.pos.pathEnd = i
	if i >= len(s) {
		p.pos.queryEnd = i
		return nil
	}
	if s[i] == '#' {
		p.pos.queryEnd = i
		return nil
	}
	// s[i] == '?'
	j := i
	for j < len(s) && s[j] != '#' {
		j++
	}
	p.pos.queryEnd = j
	return nil
}

// looksLikeBareHostPort reports whether s (a bare, no-scheme token) has the
// shape "host:port" with an all-digit port, so a colon there is accepted
// instead of raising rcChar/rcUnexpected.
func looksLikeBareHostPort(s string) bool {
	cut := len(s)
	for i, r := range s {
		if r == '?' || r == '#' {
			cut = i
			break
		}
	}
	token := s[:cut]
	i := strings.LastIndex(token, ":")
	if i <= 0 || i == len(token)-1 {
		return false
	}
	for _, r := range token[i+1:] {
		if !isASCIIDigit(r) {
			return false
		}
	}
	return true
}

// classifyPathPart determines PathType (and, where applicable, ObjID or
// AccCode) for the path portion already bounded by p.pos. It is called
// once the path/query/fragment boundaries are known.
func (p *Path) classifyPathPart() error {
	path := p.PathPart()

	switch p.schemeType {
	case SchemeNCBIObj:
		if isAllDigits(path) && len(path) > 0 && len(path) <= maxOIDDigits {
			n, err := strconv.ParseUint(path, 10, 32)
			if err == nil {
				p.pathType = PathOID
				p.objID = uint32(n)
				return nil
			}
		}
		p.pathType = PathName
		return nil
	case SchemeNCBILegacyRefseq:
		p.pathType = PathName
		return nil
	}

	if p.schemeType == SchemeNCBIFile && strings.HasPrefix(path, "//") {
		p.pathType = PathUNCPath
		return nil
	}

	if strings.HasPrefix(path, "/") {
		p.pathType = PathFullPath
		return nil
	}

	if path == "" {
		p.pathType = PathName
		return nil
	}

	if strings.ContainsRune(path, '/') {
		p.pathType = PathRelPath
		return nil
	}

	// Bare authority-shaped fallback only applies to inputs that never had
	// a scheme (accessions/paths under a recognized scheme are always
	// name-or-accession-or-OID shaped instead).
	if !p.fromURI {
		if bt, ht, v4, v6, port, ok := classifyBareAuthority(path); ok {
			p.pathType = bt
			p.hostType = ht
			p.ipv4 = v4
			p.ipv6 = v6
			p.portNum = port
			return nil
		}
	}

	if code, upgraded := classifyAccession(path); upgraded {
		p.accCode = code
		p.hasAcc = true
		p.pathType = PathAccession
		return nil
	} else if shape, ok := parseAccessionShape(path); ok {
		p.accCode = PackAccCode(boolToInt(shape.underscore), shape.alpha, shape.digit, shape.ext, shape.suffix)
		p.hasAcc = true
		p.pathType = PathNameOrAccession
		return nil
	}

	if isAllDigits(path) && len(path) <= maxOIDDigits {
		p.pathType = PathNameOrOID
		n, err := strconv.ParseUint(path, 10, 32)
		if err == nil {
			p.objID = uint32(n)
		}
		return nil
	}

	p.pathType = PathName
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isASCIIDigit(r) {
			return false
		}
	}
	return true
}

// classifyBareAuthority recognizes a single no-scheme token as user@host,
// host:port, [ipv6]:port, or a bare DNS hostname (§3's HostName/Endpoint/
// Auth PathType variants), so a plain "[::1]:80" still yields a usable
// HostType/port even without a scheme.
func classifyBareAuthority(token string) (PathType, HostType, uint32, [8]uint16, int, bool) {
	// Only engage for tokens that are structurally host-shaped — a colon,
	// an '@', a bracketed IPv6 literal, or a dotted-quad IPv4 — so bare
	// single-label names (which also happen to be syntactically valid DNS
	// labels) still fall through to accession/name classification instead
	// of being swallowed as a HostName.
	structurallyHostLike := strings.ContainsRune(token, '@') ||
		strings.HasPrefix(token, "[") ||
		strings.ContainsRune(token, ':') ||
		looksLikeIPv4(token)
	if !structurallyHostLike {
		return PathInvalid, HostNone, 0, [8]uint16{}, 0, false
	}

	if i := strings.LastIndex(token, "@"); i > 0 {
		hostPart := token[i+1:]
		ht, v4, v6, port, ok := classifyHostPort(hostPart)
		if ok {
			return PathAuth, ht, v4, v6, port, true
		}
		return PathAuth, HostNone, 0, [8]uint16{}, 0, true
	}

	if ht, v4, v6, port, ok := classifyHostPort(token); ok {
		if port != 0 || strings.Contains(token, ":") {
			return PathEndpoint, ht, v4, v6, port, true
		}
		return PathHostName, ht, v4, v6, port, true
	}
	return PathInvalid, HostNone, 0, [8]uint16{}, 0, false
}

// classifyHostPort recognizes "host", "host:port" or "[ipv6]:port".
func classifyHostPort(token string) (HostType, uint32, [8]uint16, int, bool) {
	if strings.HasPrefix(token, "[") {
		end := strings.LastIndex(token, "]")
		if end < 0 {
			return HostNone, 0, [8]uint16{}, 0, false
		}
		hostToken := token[:end+1]
		portText := strings.TrimPrefix(token[end+1:], ":")
		groups, err := parseIPv6Groups(hostToken[1 : len(hostToken)-1])
		if err != nil {
			return HostNone, 0, [8]uint16{}, 0, false
		}
		port := 0
		if portText != "" {
			if n, err := strconv.Atoi(portText); err == nil && n <= 65535 {
				port = n
			}
		}
		return HostIPv6, 0, groups, port, true
	}

	host := token
	portText := ""
	if i := strings.LastIndex(token, ":"); i >= 0 {
		host = token[:i]
		portText = token[i+1:]
	}
	if host == "" {
		return HostNone, 0, [8]uint16{}, 0, false
	}
	ht, v4, v6, err := classifyHost(host)
	if err != nil || ht == HostNone {
		return HostNone, 0, [8]uint16{}, 0, false
	}
	port := 0
	if portText != "" {
		n, err := strconv.Atoi(portText)
		if err != nil || n > 65535 {
			return HostNone, 0, [8]uint16{}, 0, false
		}
		port = n
	}
	return ht, v4, v6, port, true
}
