package typeshelper

import (
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
)

// evalType evaluates the type expression in a package declaring `type Secret string`.
func evalType(t *testing.T, typeStr string) types.Type {
	t.Helper()

	pkg := types.NewPackage("testpkg", "testpkg")
	secret := types.NewTypeName(token.NoPos, pkg, "Secret", nil)
	types.NewNamed(secret, types.Typ[types.String], nil)
	pkg.Scope().Insert(secret)

	tv, err := types.Eval(token.NewFileSet(), pkg, token.NoPos, typeStr)
	require.NoError(t, err)
	return tv.Type
}

func TestIsStringType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typeStr string
		want    bool
	}{
		{"string", true},
		{"Secret", true},
		{"[]byte", false},
		{"*string", false},
		{"int", false},
	}
	for _, tt := range tests {
		t.Run(tt.typeStr, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, IsStringType(evalType(t, tt.typeStr)))
		})
	}
}

func TestFuncIsErrReturning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typeStr string
		want    bool
	}{
		{"func() error", true},
		{"func() (int, error)", true},
		{"func() (error, error)", false},
		{"func() (error, int)", false},
		{"func()", false},
		{"func() string", false},
	}
	for _, tt := range tests {
		t.Run(tt.typeStr, func(t *testing.T) {
			t.Parallel()

			sig := evalType(t, tt.typeStr).(*types.Signature)
			fn := types.NewFunc(token.NoPos, nil, "f", sig)
			require.Equal(t, tt.want, FuncIsErrReturning(fn))
		})
	}
}
