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

// Package rules lists the rule checkers built on the operation dispatch pipeline.
package rules

import (
	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/rules/errnotreturned"
	"go.uber.org/opdispatch/rules/identicalbranches"
	"go.uber.org/opdispatch/rules/passwordstring"
)

// All returns new instances of every rule.
func All() []dispatch.Consumer {
	return []dispatch.Consumer{
		errnotreturned.New(),
		identicalbranches.New(),
		passwordstring.New(),
	}
}

// Names returns the names of every rule, in the order of All.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.Name()
	}
	return names
}
