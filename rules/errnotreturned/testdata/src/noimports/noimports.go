package noimports

type Error struct{}

func (Error) Error() string { return "error" }

func New() error { return Error{} }

func f() {
	New()
}
