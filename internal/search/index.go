// Package search implements the client-side fuzzy index over one page of users.
//
// Queries use an extended syntax. Whitespace separates terms that must all
// match, '|' separates alternatives. Each term is one of:
//
//	jon      fuzzy match
//	=jon     exact match
//	'jon     include
//	^jo      prefix
//	on$      suffix
//	!jon     does not include
//	!^jo     does not start with
//	!on$     does not end with
//
// Matching is case-insensitive and considers the display name, the user
// name and the email of every user.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"usergrip/internal/domain"
)

// Scores granted to the non-fuzzy operators. Fuzzy scores come from
// sahilm/fuzzy and are usually well below these.
const (
	exactScore   = 1000
	prefixScore  = 500
	suffixScore  = 300
	includeScore = 200
)

type document struct {
	fields []string // display name, name, email
	lower  []string
}

// Index is an immutable fuzzy index. It is rebuilt, never updated.
type Index struct {
	docs []document
}

// NewIndex builds an index over users, keeping their order
func NewIndex(users []domain.User) *Index {
	docs := make([]document, len(users))
	for i, u := range users {
		fields := []string{u.Spec.DisplayName, u.Name(), u.Spec.Email}
		lower := make([]string, len(fields))
		for j, f := range fields {
			lower[j] = strings.ToLower(f)
		}
		docs[i] = document{fields: fields, lower: lower}
	}
	return &Index{docs: docs}
}

// Len returns the number of indexed documents
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search returns the positions of the matching documents, best match first.
// Equal scores keep index order. An empty query matches everything in order.
func (ix *Index) Search(query string) []int {
	groups := Parse(query)
	if len(groups) == 0 {
		all := make([]int, len(ix.docs))
		for i := range all {
			all[i] = i
		}
		return all
	}

	best := make([]int, len(ix.docs))
	matched := make([]bool, len(ix.docs))

	for _, group := range groups {
		scores, ok := ix.evalGroup(group)
		for i := range ix.docs {
			if !ok[i] {
				continue
			}
			if !matched[i] || scores[i] > best[i] {
				best[i] = scores[i]
			}
			matched[i] = true
		}
	}

	results := []int{}
	for i, m := range matched {
		if m {
			results = append(results, i)
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return best[results[a]] > best[results[b]]
	})
	return results
}

// evalGroup scores every document against terms that must all match
func (ix *Index) evalGroup(group []Term) ([]int, []bool) {
	scores := make([]int, len(ix.docs))
	ok := make([]bool, len(ix.docs))
	for i := range ok {
		ok[i] = true
	}

	for _, term := range group {
		var termScores []int
		var termOK []bool
		if term.Op == OpFuzzy {
			termScores, termOK = ix.fuzzyTerm(term.Text)
		} else {
			termScores, termOK = ix.literalTerm(term)
		}
		for i := range ix.docs {
			ok[i] = ok[i] && termOK[i]
			scores[i] += termScores[i]
		}
	}
	return scores, ok
}

func (ix *Index) fuzzyTerm(pattern string) ([]int, []bool) {
	scores := make([]int, len(ix.docs))
	ok := make([]bool, len(ix.docs))

	// flatten every field of every document into one source
	var data []string
	var owner []int
	for i, d := range ix.docs {
		for _, f := range d.fields {
			data = append(data, f)
			owner = append(owner, i)
		}
	}

	for _, m := range fuzzy.Find(pattern, data) {
		doc := owner[m.Index]
		if !ok[doc] || m.Score > scores[doc] {
			scores[doc] = m.Score
		}
		ok[doc] = true
	}
	return scores, ok
}

func (ix *Index) literalTerm(term Term) ([]int, []bool) {
	scores := make([]int, len(ix.docs))
	ok := make([]bool, len(ix.docs))

	for i, d := range ix.docs {
		hit, score := false, 0
		for _, f := range d.lower {
			if s, m := term.Op.match(f, term.Text); m {
				hit = true
				if s > score {
					score = s
				}
			}
		}
		if term.Inverse {
			// an inverse term must hold for every field
			ok[i] = !hit
			continue
		}
		ok[i] = hit
		scores[i] = score
	}
	return scores, ok
}

func (op Op) match(field, text string) (int, bool) {
	switch op {
	case OpExact:
		return exactScore, field == text
	case OpPrefix:
		return prefixScore, strings.HasPrefix(field, text)
	case OpSuffix:
		return suffixScore, strings.HasSuffix(field, text)
	default:
		return includeScore, strings.Contains(field, text)
	}
}
