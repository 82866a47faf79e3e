// Package typeshelper implements utility functions for types (i.e., go/types).
package typeshelper

import (
	"go/types"
)

// IsStringType returns true if the underlying type is a string type, e.g., `string` or
// `type Secret string`.
func IsStringType(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsString != 0
}

// IsErrorType returns true if the type is the predeclared `error` interface.
func IsErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// FuncIsErrReturning returns true iff the function has a single result of type `error`, and that
// result is the last in the list of results.
func FuncIsErrReturning(fn *types.Func) bool {
	results := fn.Type().(*types.Signature).Results()
	n := results.Len()
	if n == 0 || !IsErrorType(results.At(n-1).Type()) {
		return false
	}
	for i := 0; i < n-1; i++ {
		if IsErrorType(results.At(i).Type()) {
			return false
		}
	}
	return true
}
