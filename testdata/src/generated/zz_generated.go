// Code generated by hand to check that generated files are skipped. DO NOT EDIT.

package generated

import "errors"

func generated() {
	errors.New("discarded, but this file is generated")
}
