package identicalbranches

func sink(int) {}

func ifs(x int) {
	if x > 0 { // want "all 2 branches of this if chain are identical"
		sink(x)
	} else {
		sink(x)
	}

	if x > 10 { // want "all 3 branches of this if chain are identical"
		sink(1)
		x++
	} else if x > 5 {
		sink(1)
		x++
	} else {
		sink(1)
		x++
	}

	// No final else.
	if x > 10 {
		sink(1)
	} else if x > 5 {
		sink(1)
	}

	if x > 10 {
		sink(1)
	} else if x > 5 {
		sink(2)
	} else {
		sink(1)
	}

	if x > 0 {
		sink(x)
	}
}

func switches(x int, v any) {
	switch x { // want "all 3 clauses of this switch are identical"
	case 1:
		sink(x)
	case 2:
		sink(x)
	default:
		sink(x)
	}

	// No default clause.
	switch x {
	case 1:
		sink(x)
	case 2:
		sink(x)
	}

	// A single clause.
	switch {
	default:
		sink(x)
	}

	switch x {
	case 1:
		sink(1)
	default:
		sink(2)
	}

	switch v.(type) { // want "all 2 clauses of this type switch are identical"
	case int:
		sink(0)
	default:
		sink(0)
	}
}
