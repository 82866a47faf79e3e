// want package:".*"

// Package prettyprint is meant to check if our pretty-print flag has effect.
package prettyprint

import "fmt"

func main() {
	// Ensure that the ASCII escape code is in the want strings (such that the errors are pretty
	// printed).
	fmt.Errorf("pretty") //want "\u001B"
}
