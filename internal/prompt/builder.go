package prompt

import (
	"fmt"
	"strings"

	"github.com/BenjaminLTakaki/coverart-api/internal/genre"
	"github.com/BenjaminLTakaki/coverart-api/internal/models"
)

// fallbackGenres is used when a playlist yielded no genre tags at all.
const fallbackGenres = "various"

// Builder assembles text-to-image prompts from a genre profile. All methods
// are pure string assembly: no I/O, and identical inputs produce
// byte-identical output.
type Builder struct{}

// NewBuilder creates a new prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildImagePrompt produces the base synthesis prompt for a profile.
// userMood, when non-empty, overrides the classified mood in the prompt; the
// classified mood itself never appears in the base prompt (the original
// generator only ever surfaced the user's override here).
func (b *Builder) BuildImagePrompt(profile genre.Profile, userMood string) string {
	genres := fallbackGenres
	if len(profile.TopGenres) > 0 {
		genres = strings.Join(profile.TopGenres, ", ")
	}

	prompt := fmt.Sprintf("album cover art, %s music, professional artwork, highly detailed, 8k", genres)

	if userMood != "" {
		prompt += fmt.Sprintf(", %s atmosphere", userMood)
	}

	if elements := profile.StyleElements(); len(elements) > 0 {
		prompt += ", " + strings.Join(elements, ", ")
	}

	return prompt
}

// WithTitle appends the album-title clause to a base prompt.
func (b *Builder) WithTitle(basePrompt, title string) string {
	return fmt.Sprintf("%s, representing the album '%s'", basePrompt, title)
}

// WithStyleAsset appends the style-asset clause: the asset's trigger words
// joined by commas, or "in the style of <name>" when it has none. A nil
// asset leaves the prompt untouched.
func (b *Builder) WithStyleAsset(prompt string, asset *models.StyleAsset) string {
	if asset == nil {
		return prompt
	}

	phrase := fmt.Sprintf("in the style of %s", asset.Name)
	if len(asset.TriggerWords) > 0 {
		phrase = strings.Join(asset.TriggerWords, ", ")
	}

	return fmt.Sprintf("%s, %s", prompt, phrase)
}

// BuildTitlePrompt produces the instruction sent to the title LLM. The
// anti-cliché wording matters: without it the models converge on the same
// handful of stock titles per genre.
func (b *Builder) BuildTitlePrompt(profile genre.Profile) string {
	genres := "music"
	if len(profile.TopGenres) > 0 {
		genres = strings.Join(profile.TopGenres, ", ")
	}

	styleText := strings.Join(profile.StyleElements(), ", ")

	return fmt.Sprintf(`You are creating a unique, evocative album title.
Create a single, short album title (3-5 words) for a %s music album.
The album cover has these visual elements: %s. Avoid clichés like
'Neon', 'Tokyo', 'Bloom', 'Sakura' or other stereotypical words. This is just
an example for the genre j-pop but obviously don't reuse generic titles for other genres too.
Create a title that is poetic, emotionally resonant, and truly original.
Create a title that reflects both the music genres and these visual elements.
Respond with only the title, nothing else.`, genres, styleText)
}
