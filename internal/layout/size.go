package layout

import "math"

// Mul returns a*b. It reports false for a negative operand or when the
// product overflows an int.
func Mul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

// Add returns a+b under the same rules as Mul.
func Add(a, b int) (int, bool) {
	if a < 0 || b < 0 || b > math.MaxInt-a {
		return 0, false
	}
	return a + b, true
}

// Size multiplies factors, reporting false on the first negative factor
// or overflow.
func Size(factors ...int) (int, bool) {
	n := 1
	for _, f := range factors {
		var ok bool
		if n, ok = Mul(n, f); !ok {
			return 0, false
		}
	}
	return n, true
}
