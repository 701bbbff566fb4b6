package splitter

import (
	"slices"
	"strings"
)

type heading struct {
	level int
	title string
}

// markdownFragments opens a section at every ATX heading up to the
// configured level and tags it with the path of enclosing headings.
// Sections larger than the fresh budget go through the recursive splitter
// with the default separators.
func markdownFragments(text string, cfg Config, p Policy) []Fragment {
	markers := p.Headings[:min(cfg.MaxHeaderLevel, len(p.Headings))]

	var (
		sections []Fragment
		path     []heading
		fence    string
		start    int
		meta     *Metadata
	)
	closeSection := func(end int) {
		if end > start {
			sections = append(sections, Fragment{Start: start, End: end, Section: len(sections), Meta: meta})
		}
		start = end
	}

	for off := 0; off < len(text); {
		lineEnd := strings.IndexByte(text[off:], '\n')
		next := len(text)
		if lineEnd >= 0 {
			next = off + lineEnd + 1
		}
		line := strings.TrimRight(text[off:next], "\r\n")

		if f, info := fenceMarker(line); f != "" {
			switch {
			case fence == "":
				fence = f
			case strings.HasPrefix(f, fence) && info == "":
				fence = ""
			}
		} else if fence == "" {
			if h, ok := parseHeading(line, markers); ok {
				closeSection(off)
				for len(path) > 0 && path[len(path)-1].level >= h.level {
					path = path[:len(path)-1]
				}
				path = append(path, h)
				meta = headerMeta(path)
			}
		}
		off = next
	}
	closeSection(len(text))

	limit := freshBudget(cfg)
	var out []Fragment
	for _, s := range sections {
		out = append(out, splitRecursive(text, s, p.Recursive, limit, nil)...)
	}
	return out
}

func headerMeta(path []heading) *Metadata {
	m := &Metadata{Headers: make([]string, 0, len(path))}
	for _, h := range path {
		m.Headers = append(m.Headers, h.title)
	}
	return m
}

// parseHeading recognises "#".."######" followed by a space or end of line,
// indented by at most three spaces. Trailing closing hashes are dropped.
func parseHeading(line string, markers []string) (heading, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || !strings.HasPrefix(trimmed, "#") {
		return heading{}, false
	}
	level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
	if !slices.Contains(markers, trimmed[:level]) {
		return heading{}, false
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return heading{}, false
	}
	title := strings.TrimSpace(rest)
	if stripped := strings.TrimRight(title, "#"); stripped == "" || strings.HasSuffix(stripped, " ") {
		title = strings.TrimSpace(stripped)
	}
	return heading{level: level, title: title}, true
}

// fenceMarker returns the backtick or tilde run opening line and whatever
// follows it. Only a run with nothing after it closes a fence.
func fenceMarker(line string) (marker, info string) {
	trimmed := strings.TrimLeft(line, " ")
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, f) {
			n := len(trimmed) - len(strings.TrimLeft(trimmed, f[:1]))
			return trimmed[:n], strings.TrimSpace(trimmed[n:])
		}
	}
	return "", ""
}
