package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain title passes through",
			raw:  "Midnight Garden",
			want: "Midnight Garden",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  Midnight Garden\n",
			want: "Midnight Garden",
		},
		{
			name: "quotes stripped",
			raw:  `"Midnight Garden"`,
			want: "Midnight Garden",
		},
		{
			name: "single quotes stripped",
			raw:  "'Midnight Garden'",
			want: "Midnight Garden",
		},
		{
			name: "empty falls back",
			raw:  "",
			want: FallbackTitle,
		},
		{
			name: "whitespace only falls back",
			raw:  "   \n  ",
			want: FallbackTitle,
		},
		{
			name: "too short falls back",
			raw:  "ab",
			want: FallbackTitle,
		},
		{
			name: "quotes only falls back",
			raw:  `"'"`,
			want: FallbackTitle,
		},
		{
			name: "long output capped at fifty characters",
			raw:  strings.Repeat("a", 80),
			want: strings.Repeat("a", 50),
		},
		{
			name: "multi-byte titles are capped on rune boundaries",
			raw:  strings.Repeat("é", 60),
			want: strings.Repeat("é", 50),
		},
		{
			name: "short multi-byte title still counts characters",
			raw:  "夜曲",
			want: FallbackTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeTitle(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestProviderFactory_GetProvider(t *testing.T) {
	t.Run("gemini model without key fails", func(t *testing.T) {
		factory := NewProviderFactory("openai-key", "")
		_, err := factory.GetProvider(t.Context(), "gemini-2.0-flash")
		assert.Error(t, err)
	})

	t.Run("default model without openai key fails", func(t *testing.T) {
		factory := NewProviderFactory("", "gemini-key")
		_, err := factory.GetProvider(t.Context(), "gpt-4o-mini")
		assert.Error(t, err)
	})

	t.Run("default model routes to openai", func(t *testing.T) {
		factory := NewProviderFactory("openai-key", "")
		provider, err := factory.GetProvider(t.Context(), "gpt-4o-mini")
		assert.NoError(t, err)
		assert.Equal(t, "openai", provider.Name())
	})
}
