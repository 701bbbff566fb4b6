package splitter

import "slices"

const maxHeadingLevel = 6

// Policy holds the default separator lists per kind. Lists are ordered
// coarse to fine; the empty string means one character per piece.
type Policy struct {
	Recursive  []string
	Character  []string
	Python     []string
	JavaScript []string
	// Headings are the markdown section markers, least specific first.
	Headings []string
}

// DefaultPolicy returns a fresh copy of the built-in separator tables.
func DefaultPolicy() Policy {
	return Policy{
		Recursive: []string{"\n\n", "\n", " ", ""},
		Character: []string{"\n\n"},
		Python: []string{
			"\nclass ", "\ndef ", "\n\tdef ",
			"\n\n", "\n", " ", "",
		},
		JavaScript: []string{
			"\nfunction ", "\nclass ", "\nconst ", "\nlet ", "\nvar ",
			"\n\n", "\n", " ", "",
		},
		Headings: []string{"#", "##", "###", "####", "#####", "######"},
	}
}

// Default chunking parameters offered to callers that omit them.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// KindInfo describes one strategy for discovery endpoints.
type KindInfo struct {
	Kind              Kind     `json:"splitter_type"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Unit              Unit     `json:"unit"`
	Parameters        []string `json:"parameters"`
	DefaultSeparators []string `json:"default_separators,omitempty"`
}

// CatalogInfo lists every strategy and the default parameters.
type CatalogInfo struct {
	Kinds         []KindInfo `json:"splitter_types"`
	DefaultParams Config     `json:"default_params"`
}

// Catalog reports the strategies available under policy p.
func Catalog(p Policy) CatalogInfo {
	lexical := []string{"chunk_size", "chunk_overlap", "separators", "keep_separator"}
	sized := []string{"chunk_size", "chunk_overlap"}
	return CatalogInfo{
		Kinds: []KindInfo{
			{
				Kind: KindRecursive, Name: "Recursive Character Splitter", Unit: UnitCharacters,
				Description:       "Recursively splits text using multiple separators",
				Parameters:        lexical,
				DefaultSeparators: slices.Clone(p.Recursive),
			},
			{
				Kind: KindCharacter, Name: "Character Splitter", Unit: UnitCharacters,
				Description:       "Splits text by a single separator",
				Parameters:        lexical,
				DefaultSeparators: slices.Clone(p.Character),
			},
			{
				Kind: KindToken, Name: "Token Splitter", Unit: UnitTokens,
				Description: "Splits text by whitespace delimited token count",
				Parameters:  sized,
			},
			{
				Kind: KindMarkdown, Name: "Markdown Header Splitter", Unit: UnitCharacters,
				Description:       "Splits markdown by headers",
				Parameters:        append(slices.Clone(sized), "max_header_level"),
				DefaultSeparators: slices.Clone(p.Headings),
			},
			{
				Kind: KindPython, Name: "Python Code Splitter", Unit: UnitCharacters,
				Description:       "Splits Python code by functions/classes",
				Parameters:        sized,
				DefaultSeparators: slices.Clone(p.Python),
			},
			{
				Kind: KindJavaScript, Name: "JavaScript Code Splitter", Unit: UnitCharacters,
				Description:       "Splits JavaScript code by functions/declarations",
				Parameters:        sized,
				DefaultSeparators: slices.Clone(p.JavaScript),
			},
		},
		DefaultParams: Config{
			Kind:         KindRecursive,
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
	}
}
