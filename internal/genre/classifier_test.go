package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_RankingByFrequency(t *testing.T) {
	tags := []string{"rock", "pop", "rock", "jazz", "rock", "pop"}
	profile := Classify(tags)

	assert.Equal(t, []string{"rock", "pop", "jazz"}, profile.TopGenres)
	assert.Equal(t, []GenreCount{
		{Name: "rock", Count: 3},
		{Name: "pop", Count: 2},
		{Name: "jazz", Count: 1},
	}, profile.GenresWithCounts)
	assert.Equal(t, tags, profile.AllGenres)
}

func TestClassify_TieBreakKeepsFirstAppearance(t *testing.T) {
	profile := Classify([]string{"a", "b", "a", "b"})

	require.Len(t, profile.GenresWithCounts, 2)
	assert.Equal(t, GenreCount{Name: "a", Count: 2}, profile.GenresWithCounts[0])
	assert.Equal(t, GenreCount{Name: "b", Count: 2}, profile.GenresWithCounts[1])
}

func TestClassify_CountsSumToInputLength(t *testing.T) {
	tags := []string{"rock", "indie rock", "rock", "pop", "jazz", "pop", "rock"}
	profile := Classify(tags)

	sum := 0
	for _, entry := range profile.GenresWithCounts {
		sum += entry.Count
	}
	assert.Equal(t, len(tags), sum)
}

func TestClassify_TopGenresCappedAtTen(t *testing.T) {
	tags := []string{
		"g1", "g2", "g3", "g4", "g5", "g6", "g7",
		"g8", "g9", "g10", "g11", "g12",
	}
	profile := Classify(tags)

	assert.Len(t, profile.TopGenres, 10)
	assert.Len(t, profile.GenresWithCounts, 12)
	assert.Equal(t, "g1", profile.TopGenres[0])
	assert.NotContains(t, profile.TopGenres, "g11")
}

func TestClassify_EmptyInput(t *testing.T) {
	profile := Classify(nil)

	assert.Equal(t, MoodBalanced, profile.Mood)
	assert.Equal(t, EnergyBalanced, profile.EnergyLevel)
	assert.Empty(t, profile.TopGenres)
	assert.Empty(t, profile.GenresWithCounts)
	assert.Empty(t, profile.StyleElements())
}

func TestClassify_Idempotent(t *testing.T) {
	tags := []string{"deep house", "tech house", "melodic techno", "deep house"}

	first := Classify(tags)
	second := Classify(tags)

	assert.Equal(t, first, second)
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	tags := []string{"rock", "pop", "rock"}
	Classify(tags)

	assert.Equal(t, []string{"rock", "pop", "rock"}, tags)
}

func TestClassifyMood(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{
			name: "substring matching on compound tags",
			tags: []string{"deep house", "tech house"},
			want: "euphoric",
		},
		{
			name: "rock and metal",
			tags: []string{"hard rock", "heavy metal", "punk"},
			want: "energetic",
		},
		{
			name: "ambient scores peaceful before relaxed on ties",
			tags: []string{"ambient"},
			want: "peaceful",
		},
		{
			name: "pop scores euphoric before upbeat on ties",
			tags: []string{"pop"},
			want: "euphoric",
		},
		{
			name: "melancholic tags",
			tags: []string{"sad indie", "slow ballad", "soul"},
			want: "melancholic",
		},
		{
			name: "no keyword matches",
			tags: []string{"zydeco", "klezmer"},
			want: MoodBalanced,
		},
		{
			name: "case insensitive",
			tags: []string{"EDM", "Dance Pop"},
			want: "euphoric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := Classify(tt.tags)
			assert.Equal(t, tt.want, profile.Mood)
		})
	}
}

func TestClassifyEnergy(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{
			name: "high energy wins",
			tags: []string{"rock", "metal", "chill"},
			want: EnergyEnergetic,
		},
		{
			name: "low energy wins",
			tags: []string{"ambient", "classical", "rock"},
			want: EnergyCalm,
		},
		{
			name: "one low one high is balanced",
			tags: []string{"acoustic folk", "heavy metal"},
			want: EnergyBalanced,
		},
		{
			name: "unknown tags are balanced",
			tags: []string{"jazz", "bossa nova"},
			want: EnergyBalanced,
		},
		{
			name: "a tag can count toward both sides",
			// "acoustic rock" is low and high at once; the extra "rock" tips it.
			tags: []string{"acoustic rock", "rock"},
			want: EnergyEnergetic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := Classify(tt.tags)
			assert.Equal(t, tt.want, profile.EnergyLevel)
		})
	}
}

func TestStyleElements(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "rock rule has top priority",
			tags: []string{"metal", "electronic"},
			want: []string{"dramatic lighting, bold contrasts"},
		},
		{
			name: "electronic rule",
			tags: []string{"techno", "minimal"},
			want: []string{"futuristic, digital elements, abstract patterns"},
		},
		{
			name: "hip hop rule",
			tags: []string{"hip hop", "boom bap"},
			want: []string{"urban aesthetic, stylish, street art influence"},
		},
		{
			name: "jazz rule",
			tags: []string{"vocal jazz"},
			want: []string{"smoky atmosphere, classic vibe, vintage feel"},
		},
		{
			name: "folk rule",
			tags: []string{"indie folk"},
			want: []string{"organic textures, natural elements, warm tones"},
		},
		{
			name: "no match yields empty",
			tags: []string{"reggae", "ska"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := Classify(tt.tags)
			assert.Equal(t, tt.want, profile.StyleElements())
		})
	}
}

func TestStyleElementsFor_MatchesProfileComputation(t *testing.T) {
	profile := Classify([]string{"rock", "pop", "rock"})

	assert.Equal(t, profile.StyleElements(), StyleElementsFor(profile.TopGenres))
}

func TestPercentages(t *testing.T) {
	profile := Classify([]string{"rock", "rock", "pop"})

	got := profile.Percentages(5)
	assert.Equal(t, []GenrePercentage{
		{Name: "rock", Percentage: 67},
		{Name: "pop", Percentage: 33},
	}, got)
}

func TestPercentages_CapsAtMax(t *testing.T) {
	profile := Classify([]string{"a", "b", "c", "d", "e", "f", "g"})

	got := profile.Percentages(3)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, 14, got[0].Percentage)
}

func TestPercentages_EmptyProfile(t *testing.T) {
	profile := Classify(nil)

	assert.Empty(t, profile.Percentages(5))
}

func TestPercentages_DefaultMaxOnNonPositive(t *testing.T) {
	profile := Classify([]string{"a", "b", "c", "d", "e", "f", "g"})

	assert.Len(t, profile.Percentages(0), 5)
}
