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

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"

	"github.com/ncbi/vfscore/rc"
)

// classifyHost classifies a bracket-stripped-or-not host string into its
// HostType and, for IP literals, its packed representation. DNS names are
// normalized to NFC and run through IDNA's ToASCII (the same
// normalize-then-punycode idiom the teacher's IRI authority handling uses
// for internationalized hostnames) before being validated with
// miekg/dns's domain-name grammar, so a host written in its native
// script resolves the same as its ASCII/punycode form.
func classifyHost(raw string) (HostType, uint32, [8]uint16, error) {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		groups, err := parseIPv6Groups(raw[1 : len(raw)-1])
		if err != nil {
			return HostNone, 0, [8]uint16{}, err
		}
		return HostIPv6, 0, groups, nil
	}

	if looksLikeIPv4(raw) {
		v4, err := parseIPv4(raw)
		if err != nil {
			return HostNone, 0, [8]uint16{}, err
		}
		return HostIPv4, v4, [8]uint16{}, nil
	}

	if raw == "" {
		return HostNone, 0, [8]uint16{}, nil
	}

	ascii, err := idna.ToASCII(norm.NFC.String(raw))
	if err != nil {
		return HostNone, 0, [8]uint16{}, rc.Wrap(err, rc.ObjectData, "host", rc.CauseInvalid)
	}
	if _, ok := dns.IsDomainName(ascii); !ok {
		return HostNone, 0, [8]uint16{}, rc.New(rc.ObjectData, "host", rc.CauseInvalid)
	}
	return HostDNS, 0, [8]uint16{}, nil
}

// looksLikeIPv4 reports whether raw has the dotted-quad shape (four
// '.'-separated runs of digits), regardless of whether each octet is in
// range — that distinction is what lets us raise rcExcessive instead of
// silently falling back to DNS classification.
func looksLikeIPv4(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, r := range part {
			if !isASCIIDigit(r) {
				return false
			}
		}
	}
	return true
}

func parseIPv4(raw string) (uint32, error) {
	parts := strings.Split(raw, ".")
	var v uint32
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, rc.New(rc.ObjectData, "host", rc.CauseInvalid)
		}
		if n > 255 {
			return 0, rc.New(rc.ObjectData, "host", rc.CauseExcessive)
		}
		v = v<<8 | uint32(n)
	}
	return v, nil
}

// parseIPv6Groups parses the content between "[" and "]" (without brackets)
// into the 8x16-bit group array, honoring "::" zero-compression. A group
// with more than 4 hex digits (hence a value that cannot fit in 16 bits)
// yields rcExcessive per §4.1's boundary case.
func parseIPv6Groups(addr string) ([8]uint16, error) {
	var out [8]uint16

	halves := strings.SplitN(addr, "::", 2)
	if len(halves) == 2 {
		left, err := splitGroups(halves[0])
		if err != nil {
			return out, err
		}
		right, err := splitGroups(halves[1])
		if err != nil {
			return out, err
		}
		if len(left)+len(right) > 8 {
			return out, rc.New(rc.ObjectData, "host", rc.CauseExcessive)
		}
		copy(out[:], left)
		copy(out[8-len(right):], right)
		return out, nil
	}

	groups, err := splitGroups(addr)
	if err != nil {
		return out, err
	}
	if len(groups) != 8 {
		return out, rc.New(rc.ObjectData, "host", rc.CauseInvalid)
	}
	copy(out[:], groups)
	return out, nil
}

func splitGroups(s string) ([]uint16, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	groups := make([]uint16, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, rc.New(rc.ObjectData, "host", rc.CauseInvalid)
		}
		if len(part) > 4 {
			return nil, rc.New(rc.ObjectData, "host", rc.CauseExcessive)
		}
		for _, r := range part {
			if !isASCIIHexDigit(r) {
				return nil, rc.New(rc.ObjectData, "host", rc.CauseInvalid)
			}
		}
		n, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return nil, rc.New(rc.ObjectData, "host", rc.CauseInvalid)
		}
		if n > 0xFFFF {
			return nil, rc.New(rc.ObjectData, "host", rc.CauseExcessive)
		}
		groups = append(groups, uint16(n))
	}
	return groups, nil
}
