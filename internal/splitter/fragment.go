package splitter

import (
	"slices"
	"strings"
)

// Metadata is the structural tag a strategy attaches to fragments.
type Metadata struct {
	Headers     []string `json:"headers,omitempty"`
	Declaration string   `json:"declaration,omitempty"`
}

func (m *Metadata) key() string {
	if m == nil {
		return ""
	}
	return strings.Join(m.Headers, "\x00") + "\x01" + m.Declaration
}

func (m *Metadata) clone() *Metadata {
	if m == nil {
		return nil
	}
	return &Metadata{Headers: slices.Clone(m.Headers), Declaration: m.Declaration}
}

// Fragment is an un-merged piece of the input. Fragments produced for one
// text are contiguous: each starts where the previous one ended. Sep is the
// length of the separator the fragment begins with.
type Fragment struct {
	Start int
	End   int
	Sep   int
	// Section groups fragments that may be packed into the same chunk.
	Section int
	Meta    *Metadata
}

// Chunk is a unit of output.
type Chunk struct {
	Text     string    `json:"text"`
	Index    int       `json:"index"`
	Metadata *Metadata `json:"metadata,omitempty"`
}
