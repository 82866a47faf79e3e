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

package identicalbranches

import (
	"fmt"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/opdispatch/dispatch"
	"go.uber.org/opdispatch/dispatchtest"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestIdenticalBranches(t *testing.T) {
	t.Parallel()

	// Small batches split the if chains, which must still be reported once.
	for _, opts := range []dispatch.Options{
		{},
		{Strategy: dispatch.Stream},
		{BatchSize: 1},
	} {
		t.Run(fmt.Sprintf("%s/%d", opts.Strategy, opts.BatchSize), func(t *testing.T) {
			t.Parallel()

			testdata := analysistest.TestData()
			analysistest.Run(t, testdata, dispatchtest.NewAnalyzer(Name, opts, New()), "identicalbranches")
		})
	}
}

func TestMain(m *testing.M) {
	// glog starts its flush daemon in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"))
}
