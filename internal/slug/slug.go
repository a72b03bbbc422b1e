// Package slug generates and validates public page addresses.
package slug

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"pageforge/internal/config"
)

var adjectives = []string{
	"happy", "cool", "bright", "smart", "quick", "calm", "bold", "fresh",
	"warm", "clean", "clear", "deep", "fast", "free", "good", "kind",
	"light", "open", "pure", "rich", "safe", "soft", "true", "wide",
	"young", "sweet", "strong", "sharp", "simple", "smooth",
}

var nouns = []string{
	"mountain", "ocean", "river", "forest", "garden", "bridge", "tower", "castle",
	"island", "valley", "meadow", "stream", "sunset", "sunrise", "cloud", "star",
	"moon", "wave", "breeze", "flame", "crystal", "diamond", "pearl", "stone",
	"flower", "tree", "bird", "butterfly", "journey", "adventure",
}

const (
	letters = "abcdefghijklmnopqrstuvwxyz"
	digits  = "0123456789"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

// Generator produces random slugs. The rand source is injectable so
// tests can make generation deterministic.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator backed by the given source. A nil
// source falls back to the shared global source.
func NewGenerator(source rand.Source) *Generator {
	if source == nil {
		return &Generator{}
	}
	return &Generator{rng: rand.New(source)}
}

func (g *Generator) intn(n int) int {
	if g.rng != nil {
		return g.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Generate picks one of three slug shapes at random: a readable
// adjective-noun-number slug, a 6-character short code, or four
// letters followed by up to three digits.
func (g *Generator) Generate() string {
	switch g.intn(3) {
	case 0:
		return g.Friendly()
	case 1:
		return g.ShortCode()
	default:
		return g.randomString(4, false) + strconv.Itoa(g.intn(1000))
	}
}

// Friendly returns a slug like "happy-mountain-42".
func (g *Generator) Friendly() string {
	adjective := adjectives[g.intn(len(adjectives))]
	noun := nouns[g.intn(len(nouns))]
	return adjective + "-" + noun + "-" + strconv.Itoa(g.intn(100))
}

// ShortCode returns a 6-character alphanumeric code like "abc123".
func (g *Generator) ShortCode() string {
	return g.randomString(6, true)
}

func (g *Generator) randomString(length int, includeNumbers bool) string {
	chars := letters
	if includeNumbers {
		chars += digits
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(chars[g.intn(len(chars))])
	}
	return b.String()
}

// IsValid reports whether s is lowercase alphanumeric with hyphens,
// between MinSlugLength and MaxSlugLength characters.
func IsValid(s string) bool {
	return slugPattern.MatchString(s)
}

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Sanitize lowercases s, replaces disallowed characters with hyphens,
// collapses hyphen runs, trims edge hyphens, and caps the length.
func Sanitize(s string) string {
	s = strings.ToLower(s)
	s = invalidChars.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > config.MaxSlugLength {
		s = s[:config.MaxSlugLength]
	}
	return s
}
