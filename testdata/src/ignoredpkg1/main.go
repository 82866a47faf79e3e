// Package ignoredpkg1 tests the ability to ignore packages that are configured to be ignored.
package ignoredpkg1

import "errors"

func main() {
	// Discarding an error, but it is OK since this package is ignored.
	errors.New("ignored")
}
