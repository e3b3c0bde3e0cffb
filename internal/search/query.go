package search

import "strings"

// Op is the matching operator of a query term
type Op int

const (
	OpFuzzy Op = iota
	OpExact
	OpInclude
	OpPrefix
	OpSuffix
)

func (op Op) String() string {
	switch op {
	case OpExact:
		return "exact"
	case OpInclude:
		return "include"
	case OpPrefix:
		return "prefix"
	case OpSuffix:
		return "suffix"
	default:
		return "fuzzy"
	}
}

// Term is one parsed query token
type Term struct {
	Op      Op
	Text    string // lower-cased for every operator but fuzzy
	Inverse bool
}

// Parse splits a query into alternatives of terms that must all match.
// Tokens that are only operators are dropped.
func Parse(query string) [][]Term {
	var groups [][]Term
	for _, alt := range strings.Split(query, "|") {
		var group []Term
		for _, tok := range strings.Fields(alt) {
			if term, ok := parseTerm(tok); ok {
				group = append(group, term)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func parseTerm(tok string) (Term, bool) {
	var t Term

	if strings.HasPrefix(tok, "!") {
		t.Inverse = true
		tok = tok[1:]
		switch {
		case strings.HasPrefix(tok, "^"):
			t.Op = OpPrefix
			tok = tok[1:]
		case len(tok) > 1 && strings.HasSuffix(tok, "$"):
			t.Op = OpSuffix
			tok = strings.TrimSuffix(tok, "$")
		default:
			t.Op = OpInclude
		}
	} else {
		switch {
		case strings.HasPrefix(tok, "="):
			t.Op = OpExact
			tok = tok[1:]
		case strings.HasPrefix(tok, "'"):
			t.Op = OpInclude
			tok = tok[1:]
		case strings.HasPrefix(tok, "^"):
			t.Op = OpPrefix
			tok = tok[1:]
		case len(tok) > 1 && strings.HasSuffix(tok, "$"):
			t.Op = OpSuffix
			tok = strings.TrimSuffix(tok, "$")
		default:
			t.Op = OpFuzzy
		}
	}

	if tok == "" {
		return Term{}, false
	}
	if t.Op == OpFuzzy {
		t.Text = tok
	} else {
		t.Text = strings.ToLower(tok)
	}
	return t, true
}
