package positional

import (
	"fmt"

	"github.com/wippyai/fits/errors"
	"github.com/wippyai/fits/header"
)

// Constraint restricts the value a positional keyword may hold.
type Constraint uint8

const (
	AnyInt Constraint = iota
	Equal
	AtLeastZero
)

// Rule is one keyword expected at a fixed header position.
type Rule struct {
	Name       string
	Value      int64
	Constraint Constraint
}

// Exact requires name to hold exactly v.
func Exact(name string, v int64) Rule {
	return Rule{Name: name, Value: v, Constraint: Equal}
}

// NonNegative requires name to hold an integer >= 0.
func NonNegative(name string) Rule {
	return Rule{Name: name, Constraint: AtLeastZero}
}

// Int requires name to hold any integer.
func Int(name string) Rule {
	return Rule{Name: name}
}

// Axes returns NonNegative rules for NAXIS1..NAXISn.
func Axes(n int) []Rule {
	rules := make([]Rule, n)
	for i := range rules {
		rules[i] = NonNegative(fmt.Sprintf("NAXIS%d", i+1))
	}
	return rules
}

// Check validates rules[i] against the keyword at position start+i and
// returns the integer values in rule order.
func Check(phase errors.Phase, h *header.Header, start int, rules []Rule) ([]int64, error) {
	vals := make([]int64, len(rules))
	for i, r := range rules {
		v, err := At(phase, h, start+i, r)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// At validates a single rule against the keyword at position index.
func At(phase errors.Phase, h *header.Header, index int, r Rule) (int64, error) {
	kw, ok := h.Get(index)
	if !ok {
		e := errors.MissingKeyword(phase, r.Name)
		e.Index = index
		return 0, e
	}
	if kw.Name != r.Name {
		return 0, errors.InvalidPlacement(phase, kw.Name, index, r.Name)
	}
	v, ok := kw.Value.Int()
	if !ok {
		e := errors.UnexpectedType(phase, r.Name, "integer")
		e.Index = index
		return 0, e
	}

	switch r.Constraint {
	case Equal:
		if v != r.Value {
			e := errors.UnexpectedValue(phase, r.Name, v, r.Value)
			e.Index = index
			return 0, e
		}
	case AtLeastZero:
		if v < 0 {
			e := errors.UnexpectedValue(phase, r.Name, v, ">= 0")
			e.Index = index
			return 0, e
		}
	}
	return v, nil
}
