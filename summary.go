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

package opdispatch

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/s2"
	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/operation"
	"go.uber.org/opdispatch/util/orderedmap"
)

// Summary is the package fact recording how many operations of each kind were handed to the
// rules for the package.
type Summary struct {
	counts *orderedmap.OrderedMap[operation.Kind, int]
}

// newSummary builds the summary from the session stats, in ascending kind order and skipping
// kinds without operations.
func newSummary(stats dispatch.Stats) *Summary {
	s := &Summary{counts: orderedmap.New[operation.Kind, int]()}
	for _, k := range operation.All() {
		if n := stats.Operations[k]; n > 0 {
			s.counts.Store(k, n)
		}
	}
	return s
}

// AFact implements analysis.Fact.
func (*Summary) AFact() {}

// Len returns the number of kinds with operations.
func (s *Summary) Len() int { return s.counts.Len() }

// Count returns the number of operations of the given kind.
func (s *Summary) Count(k operation.Kind) int { return s.counts.Value(k) }

func (s *Summary) String() string {
	var parts []string
	s.counts.OrderedRange(func(k operation.Kind, n int) bool {
		parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		return true
	})
	return "operations(" + strings.Join(parts, ", ") + ")"
}

// GobEncode encodes the summary via gob encoding, compressed with s2.
func (s *Summary) GobEncode() (b []byte, err error) {
	var buf bytes.Buffer
	writer := s2.NewWriter(&buf)
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := gob.NewEncoder(writer).Encode(s.counts); err != nil {
		return nil, err
	}

	// Close the s2 writer before getting the bytes such that we have complete information.
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode decodes the summary from buffer.
func (s *Summary) GobDecode(input []byte) error {
	s.counts = orderedmap.New[operation.Kind, int]()
	return gob.NewDecoder(s2.NewReader(bytes.NewBuffer(input))).Decode(&s.counts)
}
