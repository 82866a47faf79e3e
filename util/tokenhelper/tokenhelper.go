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

// Package tokenhelper hosts helper functions that enhance the `token` package (e.g., around
// position and file path formatting etc.).
package tokenhelper

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

var _cwd = func() string {
	cwd, err := os.Getwd()
	if err != nil {
		panic("failed to get current working directory: " + err.Error())
	}
	return cwd
}()

// RelToCwd returns the relative path of the given filename with respect to the current
// working directory (retrieved during initialization). If the filename is not a child of
// the current working directory, it returns the filename itself.
func RelToCwd(filename string) string {
	rel, err := filepath.Rel(_cwd, filename)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filename
	}
	return rel
}

// ShortPath keeps the base name of the file along with at most dirLevels enclosing directories.
func ShortPath(filename string, dirLevels int) string {
	parts := strings.Split(filepath.ToSlash(filename), "/")
	if keep := dirLevels + 1; len(parts) > keep {
		parts = parts[len(parts)-keep:]
	}
	return filepath.FromSlash(strings.Join(parts, "/"))
}

// PosString formats the position as "file:line:column" with the file shortened by ShortPath.
func PosString(pos token.Position, dirLevels int) string {
	if !pos.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", ShortPath(pos.Filename, dirLevels), pos.Line, pos.Column)
}
