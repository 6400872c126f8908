package llm

import "context"

// FallbackTitle is used whenever title generation fails or returns text
// that is too short to be a plausible album title.
const FallbackTitle = "New Album"

const (
	// Title length bounds enforced by SanitizeTitle
	minTitleLength = 3
	maxTitleLength = 50
)

// Provider defines the interface for title-generation LLM providers.
type Provider interface {
	// GenerateTitle produces a short album title for the given request.
	// Implementations return the raw model text; callers sanitize it.
	GenerateTitle(ctx context.Context, request *TitleRequest) (string, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// TitleRequest contains the parameters for one title generation.
type TitleRequest struct {
	Model  string
	Prompt string
}
