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

import "testing"

func TestParseAccessionShapePlain(t *testing.T) {
	shape, ok := parseAccessionShape("SRR001656")
	if !ok {
		t.Fatalf("want shape recognized")
	}
	if shape.underscore {
		t.Fatalf("want plain form, no underscore")
	}
	if shape.alpha != 3 || shape.digit != 6 {
		t.Fatalf("want alpha=3 digit=6, got alpha=%d digit=%d", shape.alpha, shape.digit)
	}
}

func TestParseAccessionShapeUnderscoreWithExt(t *testing.T) {
	shape, ok := parseAccessionShape("NC_000001.10")
	if !ok {
		t.Fatalf("want shape recognized")
	}
	if !shape.underscore {
		t.Fatalf("want underscore form")
	}
	if shape.digit != 6 {
		t.Fatalf("want digit=6, got %d", shape.digit)
	}
	if shape.ext != 2 {
		t.Fatalf("want ext=2, got %d", shape.ext)
	}
}

func TestParseAccessionShapeRejectsSlash(t *testing.T) {
	if _, ok := parseAccessionShape("not/an/accession"); ok {
		t.Fatalf("want rejection of a multi-segment string")
	}
}

func TestParseAccessionShapeRejectsLeadingDigit(t *testing.T) {
	if _, ok := parseAccessionShape("123abc"); ok {
		t.Fatalf("want rejection of a string with no leading letters")
	}
}

func TestClassifyAccessionTableUpgrade(t *testing.T) {
	// alpha=2, digit=6 is literally present in the decision table (0x026).
	_, upgraded := classifyAccession("AB123456")
	if !upgraded {
		t.Fatalf("want table-matched shape to upgrade to Accession")
	}
}

func TestClassifyAccessionShortFormStaysUnupgraded(t *testing.T) {
	_, upgraded := classifyAccession("x1")
	if upgraded {
		t.Fatalf("want a short, non-table shape to remain NameOrAccession")
	}
}

func TestPackAccCodeRoundTrip(t *testing.T) {
	code := PackAccCode(1, 3, 6, 2, 1)
	if code.Prefix() != 1 || code.Alpha() != 3 || code.Digit() != 6 || code.Ext() != 2 || code.Suffix() != 1 {
		t.Fatalf("unpacked fields do not match packed input: %+v", code)
	}
}
