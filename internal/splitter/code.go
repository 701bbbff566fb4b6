package splitter

import (
	"regexp"
	"strings"
)

// declPattern pulls the declared name out of a piece that starts at a
// declaration separator. Matching is lexical: a keyword inside a string or
// comment that happens to start a line is taken at face value.
var declPattern = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?(?:class|def|function\*?|const|let|var)\s+([A-Za-z_$][\w$]*)`)

func tagDeclaration(sep, piece string) *Metadata {
	if strings.TrimSpace(sep) == "" {
		return nil
	}
	m := declPattern.FindStringSubmatch(piece)
	if m == nil {
		return nil
	}
	return &Metadata{Declaration: m[1]}
}

func codeFragments(text string, cfg Config, _ Policy) []Fragment {
	return splitRecursive(text, whole(text), cfg.Separators, freshBudget(cfg), tagDeclaration)
}
