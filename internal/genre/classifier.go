package genre

import (
	"math"
	"sort"
	"strings"
)

const (
	// MoodBalanced is the fallback mood when no keyword scores are positive
	MoodBalanced = "balanced"

	// Energy levels
	EnergyEnergetic = "energetic"
	EnergyCalm      = "calm"
	EnergyBalanced  = "balanced"

	topGenreCount        = 10
	rankedGenreCount     = 20
	defaultPercentageMax = 5
)

// moodRule maps a mood label to its keyword set. Declaration order is
// significant: the first-declared mood wins score ties.
type moodRule struct {
	name     string
	keywords []string
}

// Keyword lists intentionally overlap across moods ("pop" is both euphoric
// and upbeat, "ambient" both peaceful and relaxed); a single tag may score
// several moods.
var moodRules = []moodRule{
	{"euphoric", []string{"edm", "dance", "house", "electronic", "pop", "party"}},
	{"energetic", []string{"rock", "metal", "punk", "trap", "dubstep"}},
	{"peaceful", []string{"ambient", "classical", "chill", "lo-fi", "instrumental"}},
	{"melancholic", []string{"sad", "slow", "ballad", "emotional", "soul", "blues"}},
	{"upbeat", []string{"happy", "funk", "disco", "pop", "tropical"}},
	{"relaxed", []string{"acoustic", "folk", "indie", "soft", "ambient"}},
}

var (
	lowEnergyKeywords  = []string{"ambient", "classical", "chill", "lo-fi", "acoustic", "folk"}
	highEnergyKeywords = []string{"rock", "metal", "edm", "dance", "trap", "dubstep", "house"}
)

// styleRule maps genre keywords to a visual style phrase. Rules are checked
// in priority order against the full top-genre list; the first rule with any
// match wins and at most one phrase is returned.
type styleRule struct {
	keywords []string
	phrase   string
}

var styleRules = []styleRule{
	{[]string{"rock", "metal"}, "dramatic lighting, bold contrasts"},
	{[]string{"electronic", "techno"}, "futuristic, digital elements, abstract patterns"},
	{[]string{"hip hop", "rap"}, "urban aesthetic, stylish, street art influence"},
	{[]string{"jazz", "blues"}, "smoky atmosphere, classic vibe, vintage feel"},
	{[]string{"folk", "acoustic"}, "organic textures, natural elements, warm tones"},
}

// GenreCount is a single (genre, occurrence count) ranking entry.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GenrePercentage is one entry of the percentage breakdown view.
type GenrePercentage struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// Profile is the derived summary of a raw genre tag list. It is constructed
// once by Classify and read-only afterwards.
type Profile struct {
	TopGenres        []string
	AllGenres        []string
	GenresWithCounts []GenreCount
	Mood             string
	EnergyLevel      string
}

// Classify builds a Profile from a flat list of raw genre tags. It is a pure
// function: the same tag list always yields the same profile, and any list
// (including empty) yields a valid one.
func Classify(tags []string) Profile {
	profile := Profile{
		Mood:        MoodBalanced,
		EnergyLevel: EnergyBalanced,
	}
	if len(tags) == 0 {
		return profile
	}

	ranked := rankByFrequency(tags)

	top := topGenreCount
	if top > len(ranked) {
		top = len(ranked)
	}
	profile.TopGenres = make([]string, 0, top)
	for _, entry := range ranked[:top] {
		profile.TopGenres = append(profile.TopGenres, entry.Name)
	}

	withCounts := rankedGenreCount
	if withCounts > len(ranked) {
		withCounts = len(ranked)
	}
	profile.GenresWithCounts = ranked[:withCounts]

	profile.AllGenres = make([]string, len(tags))
	copy(profile.AllGenres, tags)

	profile.Mood = classifyMood(tags)
	profile.EnergyLevel = classifyEnergy(tags)

	return profile
}

// rankByFrequency counts exact-match occurrences and orders them by count
// descending. Equal counts keep the relative order of first appearance in
// the input, which is observable and must not change.
func rankByFrequency(tags []string) []GenreCount {
	counts := make(map[string]int, len(tags))
	order := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, seen := counts[tag]; !seen {
			order = append(order, tag)
		}
		counts[tag]++
	}

	ranked := make([]GenreCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, GenreCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// classifyMood scores every mood against every tag. A tag increments a
// mood's score once when any of the mood's keywords is a substring of the
// lower-cased tag; one tag may increment several moods.
func classifyMood(tags []string) string {
	scores := make([]int, len(moodRules))
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for i, rule := range moodRules {
			if matchesAny(lower, rule.keywords) {
				scores[i]++
			}
		}
	}

	best := MoodBalanced
	bestScore := 0
	for i, rule := range moodRules {
		if scores[i] > bestScore {
			best = rule.name
			bestScore = scores[i]
		}
	}
	return best
}

// classifyEnergy counts tags (not matches) against the low and high keyword
// sets; a tag can count toward both sides.
func classifyEnergy(tags []string) string {
	lowCount := 0
	highCount := 0
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		if matchesAny(lower, lowEnergyKeywords) {
			lowCount++
		}
		if matchesAny(lower, highEnergyKeywords) {
			highCount++
		}
	}

	switch {
	case highCount > lowCount:
		return EnergyEnergetic
	case lowCount > highCount:
		return EnergyCalm
	default:
		return EnergyBalanced
	}
}

func matchesAny(lowerTag string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowerTag, keyword) {
			return true
		}
	}
	return false
}

// StyleElements returns the visual style phrases for the profile's top
// genres: at most one, chosen by the first matching style rule.
func (p Profile) StyleElements() []string {
	lowered := make([]string, 0, len(p.TopGenres))
	for _, g := range p.TopGenres {
		lowered = append(lowered, strings.ToLower(g))
	}

	for _, rule := range styleRules {
		for _, g := range lowered {
			if matchesAny(g, rule.keywords) {
				return []string{rule.phrase}
			}
		}
	}
	return []string{}
}

// StyleElementsFor recomputes style phrases for an already-ranked top-genre
// list, e.g. when a persisted record is loaded back.
func StyleElementsFor(topGenres []string) []string {
	return Profile{TopGenres: topGenres}.StyleElements()
}

// Percentages is a pure view of the genre distribution for the top max
// genres. Each percentage is rounded independently, so the column is not
// guaranteed to sum to exactly 100.
func (p Profile) Percentages(max int) []GenrePercentage {
	if len(p.AllGenres) == 0 {
		return []GenrePercentage{}
	}
	if max <= 0 {
		max = defaultPercentageMax
	}

	ranked := rankByFrequency(p.AllGenres)
	if max > len(ranked) {
		max = len(ranked)
	}

	total := len(p.AllGenres)
	percentages := make([]GenrePercentage, 0, max)
	for _, entry := range ranked[:max] {
		pct := int(math.Round(float64(entry.Count) / float64(total) * 100))
		percentages = append(percentages, GenrePercentage{Name: entry.Name, Percentage: pct})
	}
	return percentages
}
