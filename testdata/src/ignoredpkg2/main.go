// Package ignoredpkg2 tests the ability to ignore packages that are configured to be ignored.
package ignoredpkg2

func main() {
	// Identical branches, but it is OK since this package is ignored.
	password := "hunter2"
	if len(password) > 0 {
		print(password)
	} else {
		print(password)
	}
}
