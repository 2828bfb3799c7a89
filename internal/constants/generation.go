package constants

// Generation profile sent on every upstream call. The proxy does not expose
// these as request parameters.
const (
	GenerationTemperature = 0.7
	GenerationTopP        = 0.95
	GenerationTopK        = 40
	MaxOutputTokens       = 8192
)

const (
	// DefaultModel is used whenever the caller omits a model.
	DefaultModel = "gemini-2.5-flash"
	// MaxPromptLength bounds the accepted prompt size in characters.
	MaxPromptLength = 10000
	// MinModelNameLength is the shortest accepted model name after trimming.
	MinModelNameLength = 3
	// MinAPIKeyLength is the shortest accepted Gemini API key.
	MinAPIKeyLength = 20
)
