package beantab

import (
	"regexp"
	"strings"
)

// AccountFilter selects the accounts shown in the grid.
//
// The zero AccountFilter matches every account.
type AccountFilter struct {
	patterns []*regexp.Regexp
	// all patterns given were invalid, nothing matches.
	none bool
}

// CompileAccountFilter compiles a list of regular expressions matched
// against account names. An account is kept if any pattern matches.
//
// Blank and duplicate patterns are ignored. Invalid patterns are reported and
// excluded: they never widen the result. If every pattern is invalid the
// filter matches nothing.
func CompileAccountFilter(patterns []string) (AccountFilter, []Problem) {
	var (
		f        AccountFilter
		problems []Problem
		given    int
	)
	seen := make(map[string]bool)
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		given++
		re, err := regexp.Compile(p)
		if err != nil {
			problems = append(problems, Problem{Item: p, Message: err.Error()})
			continue
		}
		f.patterns = append(f.patterns, re)
	}
	f.none = given > 0 && len(f.patterns) == 0
	return f, problems
}

// Match reports whether account passes the filter.
func (f AccountFilter) Match(account string) bool {
	if f.none {
		return false
	}
	if len(f.patterns) == 0 {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(account) {
			return true
		}
	}
	return false
}

// Patterns returns the valid patterns of the filter.
func (f AccountFilter) Patterns() []string {
	list := make([]string, 0, len(f.patterns))
	for _, re := range f.patterns {
		list = append(list, re.String())
	}
	return list
}

// ExactAccountPattern returns a pattern matching account and nothing else.
func ExactAccountPattern(account string) string {
	return "^" + regexp.QuoteMeta(account) + "$"
}
