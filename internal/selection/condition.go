package selection

import (
	language "github.com/hanpama/gqlmodel/internal/language"
)

// Condition is a boolean directive guard on a variable. Inverted is set for
// @skip, cleared for @include.
type Condition struct {
	Variable string `json:"variable"`
	Inverted bool   `json:"inverted,omitempty"`
}

func (c Condition) String() string {
	if c.Inverted {
		return "@skip(if: $" + c.Variable + ")"
	}
	return "@include(if: $" + c.Variable + ")"
}

// conditionsOf reads @skip/@include from directives. excluded is true when a
// literal argument statically removes the selection.
func conditionsOf(directives language.DirectiveList) (conds []Condition, excluded bool) {
	for _, d := range directives {
		var inverted bool
		switch d.Name {
		case "include":
			inverted = false
		case "skip":
			inverted = true
		default:
			continue
		}
		arg := d.Arguments.ForName("if")
		if arg == nil || arg.Value == nil {
			continue
		}
		if v := language.VariableName(arg.Value); v != "" {
			conds = unionConditions(conds, []Condition{{Variable: v, Inverted: inverted}})
			continue
		}
		if arg.Value.Kind == language.BooleanValue {
			literal := arg.Value.Raw == "true"
			if literal == inverted {
				return nil, true
			}
		}
	}
	return conds, false
}

// unionConditions appends the conditions of b missing from a. a is returned
// unchanged when b adds nothing.
func unionConditions(a, b []Condition) []Condition {
	var extra []Condition
	for _, c := range b {
		if containsCondition(a, c) || containsCondition(extra, c) {
			continue
		}
		extra = append(extra, c)
	}
	if len(extra) == 0 {
		return a
	}
	return append(append(make([]Condition, 0, len(a)+len(extra)), a...), extra...)
}

func containsCondition(cs []Condition, c Condition) bool {
	for _, have := range cs {
		if have == c {
			return true
		}
	}
	return false
}

func sameConditions(a, b []Condition) bool {
	if len(a) != len(b) {
		return false
	}
	for _, c := range a {
		if !containsCondition(b, c) {
			return false
		}
	}
	return true
}

// mergeConditions combines the guards of two occurrences of one field. An
// unconditional occurrence makes the merged field unconditional.
func mergeConditions(a, b []Condition) []Condition {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	return unionConditions(a, b)
}
