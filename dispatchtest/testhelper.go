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

// Package dispatchtest implements utility functions for testing consumers with analysistest.
package dispatchtest

import (
	"context"
	"fmt"

	"go.uber.org/opdispatch/dispatch"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/ctrlflow"
	"golang.org/x/tools/go/analysis/passes/inspect"
)

// NewAnalyzer returns an analyzer that runs the consumers through a dedicated coordinator and
// reports their diagnostics, so that consumers can be tested with `// want` comments.
func NewAnalyzer(name string, opts dispatch.Options, consumers ...dispatch.Consumer) *analysis.Analyzer {
	c := dispatch.New(opts)
	c.Register(consumers...)
	return &analysis.Analyzer{
		Name:     name,
		Doc:      fmt.Sprintf("%s runs %d consumers through the operation dispatch pipeline", name, len(consumers)),
		Requires: []*analysis.Analyzer{inspect.Analyzer, ctrlflow.Analyzer},
		Run: func(pass *analysis.Pass) (any, error) {
			diagnostics, _, err := c.Run(context.Background(), dispatch.NewUnitFromPass(pass, pass.Files))
			if err != nil {
				return nil, err
			}
			for _, d := range diagnostics {
				pass.Report(d)
			}
			return nil, nil
		},
	}
}
