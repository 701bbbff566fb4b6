package config

const (
	KeyLogLevel         = "log_level"
	KeySplitterType     = "splitter_type"
	KeyChunkSize        = "chunk_size"
	KeyChunkOverlap     = "chunk_overlap"
	KeyMaxChunkSize     = "max_chunk_size"
	KeyMaxChunkOverlap  = "max_chunk_overlap"
	KeyPreviewCount     = "preview_count"
	KeyPreviewLength    = "preview_length"
	KeyOutputFormat     = "output_format"
	KeyOutputDir        = "output_dir"
	KeyPresetsFile      = "presets_file"
	KeyTokenEstimates   = "token_estimates"
	KeyWorkers          = "workers"
	KeyHost             = "host"
	KeyPort             = "port"
	KeyMaxContentLength = "max_content_length"
)
