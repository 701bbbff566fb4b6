package splitter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type share struct {
	meta *Metadata
	n    int
}

// assembler packs consecutive fragments into chunks of at most size units
// and seeds every chunk after the first with the last overlap units of its
// predecessor. Chunk text is always a contiguous slice of the input.
type assembler struct {
	text    string
	size    int
	overlap int
	unit    Unit
	keep    bool

	chunks []Chunk

	open    bool
	start   int
	end     int
	length  int
	section int
	shares  []share
	solid   bool
	// seedEnd is where the overlap seed stops; anything past it is fresh.
	seedEnd int
	// words holds the content start of every word in the buffer when
	// sizing in tokens.
	words []int
}

func newAssembler(text string, cfg Config) *assembler {
	return &assembler{
		text:    text,
		size:    cfg.ChunkSize,
		overlap: cfg.ChunkOverlap,
		unit:    cfg.Kind.Unit(),
		keep:    cfg.KeepSeparator,
	}
}

func assemble(text string, frags []Fragment, cfg Config) []Chunk {
	a := newAssembler(text, cfg)
	for _, f := range frags {
		a.add(f)
	}
	return a.finish()
}

func (a *assembler) measure(from, to int) int {
	if a.unit == UnitTokens {
		return 1
	}
	return utf8.RuneCountInString(a.text[from:to])
}

func (a *assembler) add(f Fragment) {
	if !a.open {
		a.openFresh(f)
		return
	}
	if !a.solid {
		// Only the seed and whitespace so far, so no section owns the buffer.
		a.section = f.Section
	}
	n := a.measure(f.Start, f.End)
	if f.Section == a.section && a.length+n <= a.size {
		a.append(f, f.Start, n)
		return
	}
	switch {
	case a.solid:
		a.close(false)
		a.add(f)
	case a.end == a.seedEnd:
		// A piece larger than the fresh budget, which only the character
		// splitter produces. It stays behind its seed.
		a.append(f, f.Start, n)
	default:
		a.spill(f)
	}
}

// spill places f when it does not fit behind a buffer holding the seed plus
// whitespace. If the seed carries text the buffer is emitted as is, so the
// next seed is cut from an emitted chunk. A blank buffer is topped up with
// the head of f instead, and dropped when that head is blank as well: the
// overlap cannot cross a whitespace run of chunk_size units.
func (a *assembler) spill(f Fragment) {
	if strings.TrimSpace(a.text[a.start:a.end]) != "" {
		a.emit(a.end)
		a.open = false
		a.seed()
		a.add(f)
		return
	}
	cut := advance(a.text, f.Start, f.End, a.size-a.length)
	if strings.TrimSpace(a.text[f.Start:cut]) == "" {
		a.open = false
		a.add(f)
		return
	}
	head, rest := f, f
	head.End, head.Sep = cut, min(f.Sep, cut-f.Start)
	rest.Start, rest.Sep = cut, max(f.Start+f.Sep-cut, 0)
	a.append(head, head.Start, a.measure(head.Start, head.End))
	a.close(false)
	a.add(rest)
}

// openFresh starts a chunk with no overlap seed. The fragment's separator
// is dropped unless the caller asked to keep it, and leading whitespace is
// always dropped.
func (a *assembler) openFresh(f Fragment) {
	s := f.Start
	if sep := a.text[f.Start : f.Start+f.Sep]; !a.keep || strings.TrimSpace(sep) == "" {
		s += f.Sep
	}
	s = skipSpace(a.text, s, f.End)
	if s >= f.End {
		return
	}
	a.open = true
	a.start, a.end, a.length = s, s, 0
	a.seedEnd = s
	a.section = f.Section
	a.shares = a.shares[:0]
	a.solid = false
	a.words = a.words[:0]
	a.append(f, s, a.measure(s, f.End))
}

func (a *assembler) append(f Fragment, from, n int) {
	a.end = f.End
	a.length += n
	runes := utf8.RuneCountInString(a.text[from:f.End])
	if last := len(a.shares) - 1; last >= 0 && a.shares[last].meta.key() == f.Meta.key() {
		a.shares[last].n += runes
	} else {
		a.shares = append(a.shares, share{meta: f.Meta, n: runes})
	}
	if !a.solid && strings.TrimSpace(a.text[from:f.End]) != "" {
		a.solid = true
	}
	if a.unit == UnitTokens {
		a.words = append(a.words, max(from, f.Start+f.Sep))
	}
}

// close emits a buffer holding fresh text and, when overlap is configured,
// reopens it seeded with the tail of what was just emitted.
func (a *assembler) close(final bool) {
	end := a.end
	if final || a.overlap == 0 {
		end = a.start + len(strings.TrimRightFunc(a.text[a.start:a.end], unicode.IsSpace))
	}
	emitted := a.solid
	if emitted {
		a.emit(end)
	}
	a.open = false
	if final || a.overlap == 0 || !emitted {
		return
	}
	a.seed()
}

func (a *assembler) emit(end int) {
	a.chunks = append(a.chunks, Chunk{
		Text:     a.text[a.start:end],
		Index:    len(a.chunks),
		Metadata: majority(a.shares).clone(),
	})
}

// seed reopens the buffer on the last overlap units of the chunk just
// emitted from it.
func (a *assembler) seed() {
	start, n := a.end, 0
	if a.unit == UnitTokens {
		k := max(len(a.words)-a.overlap, 0)
		start, n = a.words[k], len(a.words)-k
		a.words = append(a.words[:0], a.words[k:]...)
	} else {
		for n < a.overlap && start > a.start {
			_, size := utf8.DecodeLastRuneInString(a.text[a.start:start])
			start -= size
			n++
		}
	}
	if n == 0 {
		return
	}
	a.open = true
	a.start, a.length = start, n
	a.seedEnd = a.end
	a.shares = a.shares[:0]
	a.solid = false
}

// finish flushes the buffer. A trailing buffer with no fresh text is not a
// chunk; the last emitted chunk loses its trailing whitespace instead, short
// of the seed it shares with its predecessor.
func (a *assembler) finish() []Chunk {
	if a.open && a.solid {
		a.close(true)
		return a.chunks
	}
	last := len(a.chunks) - 1
	if last < 0 {
		return a.chunks
	}
	c := &a.chunks[last]
	keep := 0
	if last > 0 && a.unit != UnitTokens {
		keep = advance(c.Text, 0, len(c.Text), a.overlap)
	}
	trimmed := strings.TrimRightFunc(c.Text, unicode.IsSpace)
	c.Text = c.Text[:max(len(trimmed), keep)]
	return a.chunks
}

// majority returns the tag that contributed the most fresh code points,
// preferring the earliest on a tie.
func majority(shares []share) *Metadata {
	type total struct {
		meta *Metadata
		n    int
	}
	var totals []total
	index := map[string]int{}
	for _, s := range shares {
		k := s.meta.key()
		if i, ok := index[k]; ok {
			totals[i].n += s.n
			continue
		}
		index[k] = len(totals)
		totals = append(totals, total{meta: s.meta, n: s.n})
	}
	var best *total
	for i := range totals {
		if best == nil || totals[i].n > best.n {
			best = &totals[i]
		}
	}
	if best == nil {
		return nil
	}
	return best.meta
}

func skipSpace(text string, from, to int) int {
	for from < to {
		r, size := utf8.DecodeRuneInString(text[from:to])
		if !unicode.IsSpace(r) {
			break
		}
		from += size
	}
	return from
}

// advance returns the offset n code points past from, stopping at to.
func advance(text string, from, to, n int) int {
	for ; n > 0 && from < to; n-- {
		_, size := utf8.DecodeRuneInString(text[from:to])
		from += size
	}
	return from
}
