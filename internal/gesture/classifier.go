package gesture

import (
	"errors"
	"fmt"

	"github.com/ayusman/lsfstream/internal/detector"
)

// ErrDuplicateRule is returned when two rules share a name.
var ErrDuplicateRule = errors.New("duplicate rule")

// Classifier evaluates an ordered list of rules against a hand pose.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules []Rule
	names map[Symbol]struct{}
}

// NewClassifier builds a classifier that evaluates rules in the given order.
func NewClassifier(rules []Rule) (*Classifier, error) {
	c := &Classifier{
		rules: make([]Rule, 0, len(rules)),
		names: make(map[Symbol]struct{}, len(rules)),
	}
	for i, r := range rules {
		if r.Name == "" || r.Name.IsSentinel() {
			return nil, fmt.Errorf("rule %d: invalid name %q", i, r.Name)
		}
		if r.Match == nil {
			return nil, fmt.Errorf("rule %q: nil predicate", r.Name)
		}
		if _, exists := c.names[r.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.Name)
		}
		c.names[r.Name] = struct{}{}
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// DefaultClassifier returns the built-in vocabulary, optionally followed by
// the extended rules.
func DefaultClassifier(extended bool) *Classifier {
	rules := CoreRules()
	if extended {
		rules = append(rules, ExtendedRules()...)
	}
	c, err := NewClassifier(rules)
	if err != nil {
		panic(fmt.Sprintf("gesture: built-in rules: %v", err))
	}
	return c
}

// Classify returns the first rule matching the hand, NoHand for a nil hand
// and Unrecognized when no rule matches.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Symbol {
	if hand == nil {
		return NoHand
	}
	for _, r := range c.rules {
		if r.Match(hand) {
			return r.Name
		}
	}
	return Unrecognized
}

// Order returns the rule names in evaluation order.
func (c *Classifier) Order() []Symbol {
	out := make([]Symbol, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Name
	}
	return out
}

// Knows reports whether s is a registered sign.
func (c *Classifier) Knows(s Symbol) bool {
	_, ok := c.names[s]
	return ok
}

// Len returns the number of registered rules.
func (c *Classifier) Len() int {
	return len(c.rules)
}
