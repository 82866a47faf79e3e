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

package config

import "time"

// This file hosts non-user-configurable parameters.

// DefaultTimeout is the default bound on the processing of one package.
const DefaultTimeout = 5 * time.Minute

// DirLevelsToPrint controls the number of enclosing directories to print when pretty printing the
// position of a diagnostic. One level has been enough to disambiguate so far.
const DirLevelsToPrint = 1

// SkipPackageDocString is the default excluded doc string: a file with this string in any of its
// comments is out of scope, while the other files of its package are still analyzed.
const SkipPackageDocString = "<opdispatch skip>"
