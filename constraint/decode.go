package constraint

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/cimatrix/value"
)

// ErrInvalidConstraint indicates a document node that cannot be read as a
// matcher (nested lists, nil, non-string object keys, ...).
var ErrInvalidConstraint = errors.New("constraint: invalid matcher")

// FromDocument reads a decoded YAML/JSON mapping: a sequence is the any-of
// form, a mapping is a partial object matcher, anything else is equality.
func FromDocument(doc map[string]any) (Constraint, error) {
	c := make(Constraint, len(doc))
	for axisName, raw := range doc {
		m, err := MatcherFromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("axis %q: %w", axisName, err)
		}
		c[axisName] = m
	}

	return c, nil
}

// MatcherFromAny reads one decoded node as a Matcher.
func MatcherFromAny(raw any) (Matcher, error) {
	if list, ok := raw.([]any); ok {
		alts := make([]value.Value, 0, len(list))
		for i, item := range list {
			v, err := value.FromAny(item)
			if err != nil {
				return Matcher{}, fmt.Errorf("alternative #%d: %v: %w", i, err, ErrInvalidConstraint)
			}
			alts = append(alts, v)
		}

		return AnyOf(alts...), nil
	}
	v, err := value.FromAny(raw)
	if err != nil {
		return Matcher{}, fmt.Errorf("%v: %w", err, ErrInvalidConstraint)
	}

	return Is(v), nil
}
