// Package tokens estimates how many model tokens a chunk will cost once it
// reaches an embedding or completion endpoint.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// DefaultEncoding is used when the model name is unknown to tiktoken.
	DefaultEncoding     = "cl100k_base"
	defaultModel        = "gpt-4o-mini"
	approxCharsPerToken = 4
)

var (
	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken

	estimateFunc = defaultEstimate
)

// Estimate returns the token count of text. Empty text costs zero tokens.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return estimateFunc(text)
}

// EstimateAll returns one estimate per text.
func EstimateAll(texts []string) []int {
	out := make([]int, len(texts))
	for i, t := range texts {
		out[i] = Estimate(t)
	}
	return out
}

func defaultEstimate(text string) int {
	if enc := getEncoder(); enc != nil {
		if ids := enc.Encode(text, nil, nil); len(ids) > 0 {
			return len(ids)
		}
	}
	return approxEstimate(text)
}

// approxEstimate is used when no BPE table could be loaded, for example on
// a host without network access to fetch it.
func approxEstimate(text string) int {
	return max(1, len(text)/approxCharsPerToken)
}

func getEncoder() *tiktoken.Tiktoken {
	encoderOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel(defaultModel)
		if err != nil {
			enc, err = tiktoken.GetEncoding(DefaultEncoding)
		}
		if err == nil {
			encoder = enc
		}
	})
	return encoder
}
