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

package dispatch

import "go.uber.org/opdispatch/operation"

// aggregate groups the operations by kind into maps pre-populated with every required kind. Kinds
// outside the required set are dropped. With a positive batchSize the operations are split into
// maps of at most batchSize operations each. No map is returned when no operation remains, so
// files without operations are not dispatched.
func aggregate(required operation.Set, ops []*operation.Operation, batchSize int) []operation.Map {
	kept := make([]*operation.Operation, 0, len(ops))
	for _, op := range ops {
		if op != nil && required.Has(op.Kind) {
			kept = append(kept, op)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(kept)
	}

	batches := make([]operation.Map, 0, (len(kept)+batchSize-1)/batchSize)
	for start := 0; start < len(kept); start += batchSize {
		end := min(start+batchSize, len(kept))
		m := operation.NewMap(required)
		for _, op := range kept[start:end] {
			m.Add(op)
		}
		batches = append(batches, m)
	}
	return batches
}
