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

// cursor provides a reader-like interface over the input string, allowing
// peeking, advancing, and byte-offset position tracking. It never copies
// the underlying string; every capture is a slice anchored against
// positions this cursor reports.
type cursor struct {
	s      string
	reader *strings.Reader
}

func newCursor(s string) *cursor {
	return &cursor{s: s, reader: strings.NewReader(s)}
}

// next reads and returns the next rune, advancing the position.
func (c *cursor) next() (rune, bool) {
	r, _, err := c.reader.ReadRune()
	return r, err == nil
}

// peek returns the next rune without advancing.
func (c *cursor) peek() (rune, bool) {
	r, _, err := c.reader.ReadRune()
	if err != nil {
		return 0, false
	}
	_ = c.reader.UnreadRune()
	return r, true
}

// startsWith reports whether the remaining input starts with r.
func (c *cursor) startsWith(r rune) bool {
	pr, ok := c.peek()
	return ok && pr == r
}

// pos returns the current byte offset from the start of the original
// string.
func (c *cursor) pos() int {
	return len(c.s) - c.reader.Len()
}

// rest returns the unread portion of the input.
func (c *cursor) rest() string {
	return c.s[c.pos():]
}
