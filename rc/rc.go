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

// Package rc provides the structured (system, object, operation, cause)
// error tuples used across the module, in place of the source library's
// packed 32-bit result codes. Callers compare against an Error built with
// New (matching on Object and Cause) using errors.Is, and unwrap the underlying cause with errors.Unwrap / errors.As.
package rc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Object names the entity an Error applies to (param, path, file, directory,
// encryptionKey, ...). It mirrors the "object" slot of the source's RC
// tuples.
type Object string

const (
	ObjectParam         Object = "param"
	ObjectChar          Object = "char"
	ObjectData          Object = "data"
	ObjectString        Object = "string"
	ObjectSRA           Object = "sra"
	ObjectPath          Object = "path"
	ObjectFile          Object = "file"
	ObjectDirectory     Object = "directory"
	ObjectEncryptionKey Object = "encryptionKey"
	ObjectEncryption    Object = "encryption"
	ObjectBuffer        Object = "buffer"
)

// Cause names the specific failure within an Object, mirroring the source's
// "cause" slot.
type Cause string

const (
	CauseNull         Cause = "null"
	CauseEmpty        Cause = "empty"
	CauseInvalid      Cause = "invalid"
	CauseUnexpected   Cause = "unexpected"
	CauseInsufficient Cause = "insufficient"
	CauseExcessive    Cause = "excessive"
	CauseNotFound     Cause = "notFound"
	CauseNotAvailable Cause = "notAvailable"
	CauseUnsupported  Cause = "unsupported"
	CauseIncorrect    Cause = "incorrect"
	CauseUnknown      Cause = "unknown"
	CauseReadonly     Cause = "readonly"
)

// Error is the concrete (system, object, operation, cause) tuple. System is
// always "vfscore"; it is kept as a field (rather than hard-coded into the
// message) so embedders can tell our errors apart from a wrapped
// filesystem/transport error further down the chain.
type Error struct {
	System    string
	Object    Object
	Operation string
	Cause     Cause
	err       error // wrapped underlying cause, if any
}

// New constructs an Error with no wrapped cause.
func New(object Object, operation string, cause Cause) *Error {
	return &Error{System: "vfscore", Object: object, Operation: operation, Cause: cause}
}

// Wrap constructs an Error that wraps an existing error, preserving its
// stack via github.com/pkg/errors so callers can still retrieve context
// with errors.Cause / %+v.
func Wrap(err error, object Object, operation string, cause Cause) *Error {
	return &Error{System: "vfscore", Object: object, Operation: operation, Cause: cause, err: errors.WithStack(err)}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("vfscore: %s/%s: %s: %v", e.Object, e.Operation, e.Cause, e.err)
	}
	return fmt.Sprintf("vfscore: %s/%s: %s", e.Object, e.Operation, e.Cause)
}

func (e *Error) Unwrap() error { return e.err }

// Is reports equality on (Object, Cause) alone, so callers can test
// `errors.Is(err, rc.New(rc.ObjectPath, "", rc.CauseNotFound))` without
// caring about the operation string.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Object != "" && t.Object != e.Object {
		return false
	}
	if t.Cause != "" && t.Cause != e.Cause {
		return false
	}
	return true
}

// ErrAmbiguousResolution is raised by the resolver facade when an oracle
// violates the "at most one of (local, remote)" exactly-one rule (§4.3).
var ErrAmbiguousResolution = New(ObjectPath, "resolve", CauseInvalid)
