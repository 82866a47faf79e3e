// want package:"operations\\(.*Conditional=3.*MethodBody=2.*\\)"

// Package rules exercises every rule through the top-level analyzer.
package rules

import (
	"errors"
	"fmt"
)

func check(n int, password string) error { // want `parameter "password" looks like it stores a password in a string`
	if n > 0 { // want "all 2 branches of this if chain are identical"
		n--
	} else {
		n--
	}
	if n == 0 {
		errors.New("zero") // want `error created by errors.New\(...\) is discarded, return or handle it`
	}
	if len(password) > 8 {
		return nil
	}
	return fmt.Errorf("n=%d", n)
}

func classify(n int) string {
	switch { // want "all 3 clauses of this switch are identical"
	case n < 0:
		return "small"
	case n > 100:
		return "small"
	default:
		return "small"
	}
}
