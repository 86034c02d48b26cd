package gesture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicatePhrase is returned when a phrase name is registered twice.
	ErrDuplicatePhrase = errors.New("duplicate phrase")
	// ErrEmptyPhrase is returned for a phrase without a name or signs.
	ErrEmptyPhrase = errors.New("empty phrase")
)

// MatchMode selects how a phrase's signs are located in the history.
type MatchMode string

const (
	// MatchTokens requires the signs to appear as a contiguous run of
	// whole symbols.
	MatchTokens MatchMode = "tokens"
	// MatchSubstring joins both sequences with spaces and looks for the
	// phrase as a plain substring. A run can then match across symbol
	// boundaries: signs [a b] match history [a x ba b] through "ba b".
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode validates a configured match mode. Empty means MatchTokens.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchTokens:
		return MatchTokens, nil
	case MatchSubstring:
		return MatchSubstring, nil
	default:
		return "", fmt.Errorf("unknown phrase match mode %q", s)
	}
}

// Phrase is a named sequence of signs recognized across consecutive frames.
type Phrase struct {
	Name  string   `json:"name"`
	Signs []Symbol `json:"signs"`
}

// PhraseTable is an ordered, read-only list of phrases. The first phrase
// satisfied by a history wins. It is safe for concurrent use.
type PhraseTable struct {
	phrases []Phrase
	names   map[string]struct{}
	mode    MatchMode
}

// NewPhraseTable builds a table in the given order. Duplicate names are
// rejected rather than silently overwritten.
func NewPhraseTable(mode MatchMode, phrases []Phrase) (*PhraseTable, error) {
	if mode == "" {
		mode = MatchTokens
	}
	if mode != MatchTokens && mode != MatchSubstring {
		return nil, fmt.Errorf("unknown phrase match mode %q", mode)
	}

	t := &PhraseTable{
		phrases: make([]Phrase, 0, len(phrases)),
		names:   make(map[string]struct{}, len(phrases)),
		mode:    mode,
	}
	for _, p := range phrases {
		if err := ValidatePhrase(p); err != nil {
			return nil, err
		}
		if _, exists := t.names[p.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePhrase, p.Name)
		}
		t.names[p.Name] = struct{}{}
		t.phrases = append(t.phrases, Phrase{
			Name:  p.Name,
			Signs: append([]Symbol(nil), p.Signs...),
		})
	}
	return t, nil
}

// ValidatePhrase checks that p has a name and at least one non-blank sign
// without embedded whitespace.
func ValidatePhrase(p Phrase) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrEmptyPhrase)
	}
	if len(p.Signs) == 0 {
		return fmt.Errorf("%w: %q has no signs", ErrEmptyPhrase, p.Name)
	}
	for _, s := range p.Signs {
		if strings.TrimSpace(string(s)) == "" || strings.ContainsAny(string(s), " \t\n") {
			return fmt.Errorf("phrase %q: invalid sign %q", p.Name, s)
		}
	}
	return nil
}

// Match returns the name of the first phrase found in history.
func (t *PhraseTable) Match(history []Symbol) (string, bool) {
	if len(history) == 0 {
		return "", false
	}

	present := make(map[Symbol]struct{}, len(history))
	for _, s := range history {
		present[s] = struct{}{}
	}

	var joined string
	if t.mode == MatchSubstring {
		joined = joinSymbols(history)
	}

	for _, p := range t.phrases {
		if !containsAll(present, p.Signs) {
			continue
		}
		switch t.mode {
		case MatchSubstring:
			if strings.Contains(joined, joinSymbols(p.Signs)) {
				return p.Name, true
			}
		default:
			if containsRun(history, p.Signs) {
				return p.Name, true
			}
		}
	}
	return "", false
}

// Phrases returns a copy of the table in order.
func (t *PhraseTable) Phrases() []Phrase {
	out := make([]Phrase, len(t.phrases))
	for i, p := range t.phrases {
		out[i] = Phrase{Name: p.Name, Signs: append([]Symbol(nil), p.Signs...)}
	}
	return out
}

// Mode returns the table's match mode.
func (t *PhraseTable) Mode() MatchMode {
	return t.mode
}

// Len returns the number of phrases.
func (t *PhraseTable) Len() int {
	return len(t.phrases)
}

// Has reports whether a phrase with this name is registered.
func (t *PhraseTable) Has(name string) bool {
	_, ok := t.names[name]
	return ok
}

// Unreachable lists phrases needing at least one sign the classifier can
// never produce. Such phrases are kept; they simply never match.
func (t *PhraseTable) Unreachable(c *Classifier) []string {
	var out []string
	for _, p := range t.phrases {
		for _, s := range p.Signs {
			if !c.Knows(s) {
				out = append(out, p.Name)
				break
			}
		}
	}
	return out
}

func containsAll(present map[Symbol]struct{}, signs []Symbol) bool {
	for _, s := range signs {
		if _, ok := present[s]; !ok {
			return false
		}
	}
	return true
}

// containsRun reports whether needle occurs as a contiguous run in haystack.
func containsRun(haystack, needle []Symbol) bool {
	if len(needle) > len(haystack) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, s := range needle {
			if haystack[i+j] != s {
				continue outer
			}
		}
		return true
	}
	return false
}

func joinSymbols(symbols []Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}
