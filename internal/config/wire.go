package config

import (
	"fmt"

	"github.com/roivaz/docsplit/internal/logging"
	"github.com/roivaz/docsplit/internal/params"
	"github.com/roivaz/docsplit/internal/service"
	"github.com/roivaz/docsplit/internal/splitter"
)

// DefaultSplitConfig is the configuration used for parameters a caller
// leaves out.
func DefaultSplitConfig() (splitter.Config, error) {
	kind, err := splitter.ParseKind(SplitterType())
	if err != nil {
		return splitter.Config{}, fmt.Errorf("%s: %w", KeySplitterType, err)
	}
	return splitter.Config{Kind: kind, ChunkSize: ChunkSize(), ChunkOverlap: ChunkOverlap()}, nil
}

// Parser builds the request parser from the defaults, limits and presets
// file.
func Parser() (params.Parser, error) {
	defaults, err := DefaultSplitConfig()
	if err != nil {
		return params.Parser{}, err
	}
	presets, err := params.LoadPresets(PresetsFile())
	if err != nil {
		return params.Parser{}, err
	}
	p := params.Parser{
		Defaults: defaults,
		Limits:   params.Limits{MaxChunkSize: MaxChunkSize(), MaxChunkOverlap: MaxChunkOverlap()},
		Presets:  presets,
	}
	if err := p.Check(defaults); err != nil {
		return params.Parser{}, fmt.Errorf("default splitter settings: %w", err)
	}
	return p, nil
}

// Service assembles the split service from the loaded settings.
func Service(log logging.Logger) (*service.Service, error) {
	parser, err := Parser()
	if err != nil {
		return nil, err
	}
	sp := splitter.New(
		splitter.WithPreview(PreviewCount(), PreviewLength()),
		splitter.WithLogger(log.WithName("splitter")),
	)
	return service.New(service.Config{
		Splitter:       sp,
		Parser:         parser,
		TokenEstimates: TokenEstimates(),
		Workers:        Workers(),
		Logger:         log.WithName("service"),
	}), nil
}
