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

// Package resolver implements the path-resolution facade (§4.3): given a
// classified vpath.Path, consult a pluggable resolver Oracle to produce a
// concrete local or remote Path, plus an optional cache location.
package resolver

import "github.com/ncbi/vfscore/vpath"

// Oracle is the external collaborator that maps accessions to local and/or
// remote locations and issues cache locations. It is deliberately narrow
// (§1 lists the resolver oracle among the out-of-scope collaborators): the
// facade owns the policy, the Oracle just answers questions about one
// accession at a time.
type Oracle interface {
	// Local reports a local Path for name, if one exists. found is false
	// (not an error) when the oracle simply has no local copy.
	Local(name string) (path vpath.Path, found bool, err error)

	// Remote reports a remote Path for name under the given protocol
	// ("http" is the only protocol the facade currently requests).
	Remote(name, protocol string) (path vpath.Path, found bool, err error)

	// Cache reports a local cache-file location to pair with a remote
	// open of name, if the oracle wants one cached at all.
	Cache(name string) (path vpath.Path, found bool, err error)
}
