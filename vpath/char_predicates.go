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

// isASCIILetter checks if a rune is an ASCII letter.
func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// isASCIIDigit checks if a rune is an ASCII digit.
func isASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isASCIIHexDigit checks if a rune is an ASCII hexadecimal digit.
func isASCIIHexDigit(r rune) bool {
	switch {
	case isASCIIDigit(r):
		return true
	case 'a' <= r && r <= 'f':
		return true
	case 'A' <= r && r <= 'F':
		return true
	}
	return false
}

// isSchemeChar reports whether r may appear after the first character of a
// scheme (§4.1 grammar: [A-Za-z][A-Za-z0-9+.-]*).
func isSchemeChar(r rune) bool {
	return isASCIILetter(r) || isASCIIDigit(r) || r == '+' || r == '-' || r == '.'
}

// isNameChar reports whether r is "any other name character" — i.e. legal
// inside a bare name/path segment outside of the states that transition
// through scheme-colon or into query/fragment. Non-ASCII code points are
// always accepted here per §4.1 ("treated as any other name character
// outside the IPv6 rule").
func isNameChar(r rune) bool {
	switch r {
	case ':', '?', '#':
		return false
	}
	return true
}
