package splitter

import (
	"strings"
	"unicode/utf8"
)

// tagFunc optionally labels a piece that begins with separator sep.
type tagFunc func(sep, piece string) *Metadata

// splitRecursive tiles f into fragments of at most limit code points. Each
// oversized piece is cut at the first separator in seps that occurs in it
// and its sub-pieces retry with the remaining separators. A piece that
// exhausts the list is kept whole.
//
// The work is driven by an explicit stack so pathological input cannot grow
// the goroutine stack.
func splitRecursive(text string, f Fragment, seps []string, limit int, tag tagFunc) []Fragment {
	type item struct {
		frag Fragment
		seps []string
	}
	var out []Fragment
	stack := []item{{frag: f, seps: seps}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		piece := text[it.frag.Start:it.frag.End]
		if utf8.RuneCountInString(piece) <= limit {
			out = append(out, it.frag)
			continue
		}
		sep, rest, ok := firstPresent(piece, it.seps)
		if !ok {
			out = append(out, it.frag)
			continue
		}
		pieces := cut(text, it.frag, sep, tag)
		for i := len(pieces) - 1; i >= 0; i-- {
			stack = append(stack, item{frag: pieces[i], seps: rest})
		}
	}
	return out
}

// splitOnce cuts f at the first separator of seps present in it without
// recursing. Pieces keep whatever size they end up with.
func splitOnce(text string, f Fragment, seps []string) []Fragment {
	sep, _, ok := firstPresent(text[f.Start:f.End], seps)
	if !ok {
		return []Fragment{f}
	}
	return cut(text, f, sep, nil)
}

// firstPresent returns the first separator occurring in s and the
// separators after it. The empty separator always matches.
func firstPresent(s string, seps []string) (string, []string, bool) {
	for i, sep := range seps {
		if sep == "" || strings.Contains(s, sep) {
			return sep, seps[i+1:], true
		}
	}
	return "", nil, false
}

// cut splits fragment f at every non-overlapping occurrence of sep, scanning
// left to right. The separator stays at the front of the piece that follows
// it, so the pieces still tile f.
func cut(text string, f Fragment, sep string, tag tagFunc) []Fragment {
	seg := text[f.Start:f.End]
	var out []Fragment
	emit := func(from, to, sepLen int, meta *Metadata) {
		if to <= from {
			return
		}
		out = append(out, Fragment{
			Start:   f.Start + from,
			End:     f.Start + to,
			Sep:     min(sepLen, to-from),
			Section: f.Section,
			Meta:    meta,
		})
	}

	if sep == "" {
		for i, r := range seg {
			emit(i, i+utf8.RuneLen(r), max(f.Sep-i, 0), f.Meta)
		}
		return out
	}

	pieceStart, pieceSep, meta := 0, f.Sep, f.Meta
	pos := 0
	for {
		i := strings.Index(seg[pos:], sep)
		if i < 0 {
			break
		}
		occ := pos + i
		// Back to back separators widen the prefix of the next piece
		// instead of producing a piece that is all separator.
		if occ <= pieceStart+pieceSep {
			pieceSep = max(pieceSep, occ-pieceStart+len(sep))
		} else {
			emit(pieceStart, occ, pieceSep, meta)
			pieceStart, pieceSep = occ, len(sep)
		}
		meta = f.Meta
		if tag != nil {
			if m := tag(sep, seg[occ:]); m != nil {
				meta = m
			}
		}
		pos = occ + len(sep)
	}
	emit(pieceStart, len(seg), pieceSep, meta)
	return out
}

func whole(text string) Fragment {
	return Fragment{Start: 0, End: len(text)}
}

func recursiveFragments(text string, cfg Config, _ Policy) []Fragment {
	return splitRecursive(text, whole(text), cfg.Separators, freshBudget(cfg), nil)
}

func characterFragments(text string, cfg Config, _ Policy) []Fragment {
	return splitOnce(text, whole(text), cfg.Separators)
}

// freshBudget is how much new content a chunk can take on top of its
// overlap seed.
func freshBudget(cfg Config) int {
	return cfg.ChunkSize - cfg.ChunkOverlap
}
