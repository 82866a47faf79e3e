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

package analysishelper

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/analysis"
)

// EnhancedPass is a drop-in replacement for `*analysis.Pass` that provides additional helper methods
// to make it easier to work with the analysis pass.
type EnhancedPass struct {
	*analysis.Pass
}

// NewEnhancedPass creates a new EnhancedPass from the given *analysis.Pass.
func NewEnhancedPass(pass *analysis.Pass) *EnhancedPass {
	return &EnhancedPass{Pass: pass}
}

// FilesInScope returns the files of the pass accepted by inScope, in their original order.
func (p *EnhancedPass) FilesInScope(inScope func(*token.FileSet, *ast.File) bool) []*ast.File {
	files := make([]*ast.File, 0, len(p.Files))
	for _, file := range p.Files {
		if inScope(p.Fset, file) {
			files = append(files, file)
		}
	}
	return files
}

// Position returns the position of the node, mostly useful for logging.
func (p *EnhancedPass) Position(node ast.Node) token.Position {
	return p.Fset.Position(node.Pos())
}
