package errnotreturned

import (
	"errors"
	"fmt"
)

var errSentinel = errors.New("sentinel")

func validate(n int) error {
	if n < 0 {
		fmt.Errorf("negative: %d", n) // want "error created by fmt.Errorf\\(...\\) is discarded"
	}
	if n == 0 {
		errors.New("zero") // want "error created by errors.New\\(...\\) is discarded"
	}
	if n > 100 {
		(errors.Join(errSentinel, nil)) // want "error created by errors.Join\\(...\\) is discarded"
	}
	if n == 42 {
		return fmt.Errorf("reserved: %d", n)
	}
	err := errors.New("kept")
	_ = err
	fmt.Println("not an error constructor")
	func() {
		fmt.Errorf("nested") // want "is discarded"
	}()
	return nil
}
