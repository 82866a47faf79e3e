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

// Package analysishelper provides helper functions for the `go/analysis` package.
package analysishelper

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/tools/go/analysis"
)

// Result is the result struct for wrapped run functions where the actual result is accompanied
// by an optional error.
type Result[T any] struct {
	// Res is the actual result from the run function.
	Res T
	// Err is the optional error from the run function.
	Err error
}

// WrapRun wraps a run function to:
// (1) convert the return type to Result[T] and put the error in the Result[T].Err field in order
// to _not_ stop the analysis and let the caller decide what to do.
// (2) recover from a panic and convert it to an error (see Recover).
// The error is prefixed with the name of the analyzer, if any.
func WrapRun[T any](f func(*analysis.Pass) (T, error)) func(*analysis.Pass) (any, error) {
	return func(pass *analysis.Pass) (any, error) {
		analyzerName := ""
		if pass != nil && pass.Analyzer != nil {
			analyzerName = pass.Analyzer.Name
		}

		result := &Result[T]{}
		var err error
		if panicErr := Recover(func() { result.Res, err = f(pass) }); panicErr != nil {
			var zero T
			result.Res, err = zero, fmt.Errorf("INTERNAL PANIC from %q: %w", analyzerName, panicErr)
		} else if err != nil && analyzerName != "" {
			err = fmt.Errorf("%s: %w", analyzerName, err)
		}
		result.Err = err
		return result, nil
	}
}

// Recover runs fn and converts a panic in it into an error carrying the panic value and the
// stack trace of the panicking goroutine.
func Recover(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()
	fn()
	return nil
}
