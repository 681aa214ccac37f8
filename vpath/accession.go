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

// accessionShape is the result of running the accession sub-grammar over a
// single name token. The packing and the exact shape semantics are an
// implementation decision recorded in DESIGN.md: the source's decision
// table is domain policy that (per the spec) requires validation against a
// live corpus we do not have access to, so this classifier is self
// consistent rather than a byte-exact reproduction.
type accessionShape struct {
	underscore bool // alpha+ '_' [alpha+] digit+ form, vs. plain alpha+ digit+
	alpha      int  // leading-letter count (second group's count, for the underscore form)
	digit      int  // digits in the main numeric run
	ext        int  // digits in the first ".digit+" extension, if any
	suffix     int  // 1 if a trailing "_alpha+" annotation suffix is present
}

// accDecisionTable is the fixed set of (prefix,alpha,digit) shape keys that
// upgrade a NameOrAccession to Accession (§4.1). Keys are the literal
// 3-nibble codes named in the spec.
var accDecisionTable = map[int]bool{
	0x015: true,
	0x026: true,
	0x106: true,
	0x126: true,
	0x109: true,
	0x142: true,
	0x148: true,
	0x149: true,
}

// classifyAccession attempts to recognize the accession grammar over s,
// which must be a single name token (no '/', ':', '?', '#'). It returns the
// packed AccCode and whether the shape is one of the recognized,
// upgrade-worthy families.
func classifyAccession(s string) (AccCode, bool) {
	shape, ok := parseAccessionShape(s)
	if !ok {
		return 0, false
	}

	prefixBit := 0
	if shape.underscore {
		prefixBit = 1
	}
	code := PackAccCode(prefixBit, shape.alpha, shape.digit, shape.ext, shape.suffix)

	key := prefixBit<<8 | clamp4(shape.alpha)<<4 | clamp4(shape.digit)
	upgrade := accDecisionTable[key] || strings.HasPrefix(s, "NA")
	if !shape.underscore && shape.alpha >= 2 && shape.alpha <= 4 && shape.digit >= 5 {
		// Covers the common plain-form SRA/RefSeq run-accession shapes
		// (e.g. "SRR001656") that the worked example in the spec classifies
		// directly as Accession but that the literal decision table, taken
		// alone, would leave at NameOrAccession. See DESIGN.md.
		upgrade = true
	}
	return code, upgrade
}

// parseAccessionShape runs the sub-grammar described in §4.1:
//
//	accession := alpha+ digit+ ('.' digit+)? | alpha+ '_' alpha* digit+ ('.' digit+)?
//
// followed by an optional trailing "_alpha+" annotation suffix. At least one
// digit is required, and at most one '.' extension is accepted.
func parseAccessionShape(s string) (accessionShape, bool) {
	i := 0
	leadAlpha := 0
	for i < len(s) && isASCIILetter(rune(s[i])) {
		leadAlpha++
		i++
	}
	if leadAlpha == 0 {
		return accessionShape{}, false
	}

	var shape accessionShape
	if i < len(s) && s[i] == '_' {
		shape.underscore = true
		i++
		secondAlpha := 0
		for i < len(s) && isASCIILetter(rune(s[i])) {
			secondAlpha++
			i++
		}
		shape.alpha = secondAlpha
	} else {
		shape.alpha = leadAlpha
	}

	digitStart := i
	for i < len(s) && isASCIIDigit(rune(s[i])) {
		i++
	}
	shape.digit = i - digitStart
	if shape.digit == 0 {
		return accessionShape{}, false
	}

	if i < len(s) && s[i] == '.' {
		j := i + 1
		extStart := j
		for j < len(s) && isASCIIDigit(rune(s[j])) {
			j++
		}
		if j > extStart {
			shape.ext = j - extStart
			i = j
		}
	}

	if i < len(s) && s[i] == '_' {
		j := i + 1
		suffixStart := j
		for j < len(s) && isASCIILetter(rune(s[j])) {
			j++
		}
		if j > suffixStart {
			// Allow an optional trailing digit run too (e.g. "_genomic2").
			for j < len(s) && isASCIIDigit(rune(s[j])) {
				j++
			}
			shape.suffix = 1
			i = j
		}
	}

	if i != len(s) {
		// Trailing bytes the sub-grammar doesn't recognize: not
		// accession-shaped.
		return accessionShape{}, false
	}

	return shape, true
}
