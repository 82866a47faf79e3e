//  Copyright (c) 2025 Uber Technologies, Inc.
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

package syntax

import (
	"math/bits"
	"strings"
)

// Set is an immutable set of syntax kinds. The zero value is the empty set.
type Set uint64

// NewSet returns the set containing the given kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

// Add returns a copy of the set with k added. Kinds out of range are ignored.
func (s Set) Add(k Kind) Set {
	if k >= numKinds {
		return s
	}
	return s | 1<<k
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool { return k < numKinds && s&(1<<k) != 0 }

// Union returns the union of the two sets.
func (s Set) Union(o Set) Set { return s | o }

// Len returns the number of kinds in the set.
func (s Set) Len() int { return bits.OnesCount64(uint64(s)) }

// Empty reports whether the set has no kinds.
func (s Set) Empty() bool { return s == 0 }

// Kinds returns the kinds in the set in ascending order.
func (s Set) Kinds() []Kind {
	kinds := make([]Kind, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		kinds = append(kinds, Kind(bits.TrailingZeros64(rest)))
	}
	return kinds
}

func (s Set) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
