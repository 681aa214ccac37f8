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

import "strings"

// QueryOption enumerates the closed set of query parameters §4.2 recognizes
// on a Path. Anything outside this set is still readable via ReadParam (by
// name) but has no symbolic constant.
type QueryOption string

const (
	OptEncrypted  QueryOption = "encrypted"
	OptEncrypt    QueryOption = "encrypt"
	OptPwPath     QueryOption = "pwpath"
	OptPwFile     QueryOption = "pwfile"
	OptPwFD       QueryOption = "pwfd"
	OptReadGroup  QueryOption = "readgroup"
	OptVDBCtx     QueryOption = "vdb-ctx"
	OptGapTicket  QueryOption = "gap_ticket"
	OptTic        QueryOption = "tic"
)

// aliasTable resolves the synonyms §4.2 lists for a handful of options onto
// a single canonical name, so ReadParam("encrypted") finds a query string
// written as "enc=1" just as readily.
var aliasTable = map[string]QueryOption{
	"encrypted":  OptEncrypted,
	"enc":        OptEncrypted,
	"encrypt":    OptEncrypted,
	"pwpath":     OptPwPath,
	"pwfile":     OptPwFile,
	"pwfd":       OptPwFD,
	"readgroup":  OptReadGroup,
	"vdb-ctx":    OptVDBCtx,
	"gap_ticket": OptGapTicket,
	"tic":        OptGapTicket,
}

// ReadParam scans the query string for a parameter named name (matched
// case-insensitively, and through aliasTable's synonyms) and writes its
// value into buf. ok is false when the parameter is absent; a non-nil error
// signals buf was too small (§4.2, same convention as the other Read*
// methods).
func (p *Path) ReadParam(buf []byte, name string) (n int, ok bool, err error) {
	query := p.Query()
	if query == "" {
		return 0, false, nil
	}
	query = strings.TrimPrefix(query, "?")

	canonical, hasAlias := aliasTable[strings.ToLower(name)]
	wantLower := strings.ToLower(name)

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		keyLower := strings.ToLower(key)

		matched := keyLower == wantLower
		if !matched && hasAlias {
			if aliasCanonical, ok := aliasTable[keyLower]; ok && aliasCanonical == canonical {
				matched = true
			}
		}
		if !matched {
			continue
		}

		n, err := readInto(buf, value)
		if err != nil {
			return 0, true, err
		}
		return n, true, nil
	}
	return 0, false, nil
}

// HasOption reports whether the query string carries opt, under any of its
// recognized aliases, regardless of value.
func (p *Path) HasOption(opt QueryOption) bool {
	query := strings.TrimPrefix(p.Query(), "?")
	if query == "" {
		return false
	}
	for _, pair := range strings.Split(query, "&") {
		key, _, _ := strings.Cut(pair, "=")
		if canonical, ok := aliasTable[strings.ToLower(key)]; ok && canonical == opt {
			return true
		}
	}
	return false
}
