// want package:".*"

package generated

import "errors"

func handwritten() {
	errors.New("discarded") // want "is discarded"
}
