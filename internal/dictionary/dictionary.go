package dictionary

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/juancabrera0513/stop/internal/entity"
)

//go:embed dictionary.es.json
var embeddedWords []byte

// Dictionary is the process-wide word source and answer validity oracle:
// an immutable category → word-list table loaded once at startup.
type Dictionary struct {
	words map[string][]string
}

func New(words map[string][]string) *Dictionary {
	if words == nil {
		words = make(map[string][]string)
	}
	return &Dictionary{words: words}
}

// Load reads a category→words JSON file from disk.
func Load(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}

	return parse(raw)
}

// Embedded returns the dictionary shipped with the binary.
func Embedded() *Dictionary {
	dict, err := parse(embeddedWords)
	if err != nil {
		panic(fmt.Errorf("embedded dictionary is broken: %w", err))
	}

	return dict
}

func parse(raw []byte) (*Dictionary, error) {
	var words map[string][]string
	if err := json.Unmarshal(raw, &words); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dictionary: %w", err)
	}

	return New(words), nil
}

// Normalize - trims, lowercases, strips diacritics (NFD decomposition, then
// combining marks U+0300–U+036F removed) and collapses inner whitespace.
// This is the sole equality basis for both dictionary membership and
// cross-player duplicate detection.
func Normalize(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	decomposed := norm.NFD.String(strings.ToLower(trimmed))

	var builder strings.Builder
	builder.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= 0x0300 && r <= 0x036F {
			continue
		}
		builder.WriteRune(r)
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

// firstLetter returns the first normalized rune of a string, or "".
func firstLetter(text string) string {
	normalized := Normalize(text)
	if normalized == "" {
		return ""
	}

	return string([]rune(normalized)[0])
}

// WordsFor returns the category's word list; unknown categories yield nil,
// never an error.
func (that *Dictionary) WordsFor(category string) []string {
	return that.words[category]
}

// RandomWordStartingWith picks a uniform random word of the category whose
// normalized first letter matches the round letter, or "" when none exists.
// The difficulty parameter is accepted but currently inert; it is a reserved
// extension point for future candidate weighting.
func (that *Dictionary) RandomWordStartingWith(category, letter string, _ entity.Difficulty) string {
	normLetter := firstLetter(letter)
	if normLetter == "" {
		return ""
	}

	var candidates []string
	for _, word := range that.WordsFor(category) {
		if firstLetter(word) == normLetter {
			candidates = append(candidates, word)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	return candidates[rand.Intn(len(candidates))] //nolint: gosec // gameplay randomness
}

// IsValid reports whether a raw answer is acceptable for the round letter and
// category: it must normalize to something non-empty starting with the round
// letter, and be a member of the category's word list when one exists. A
// category without a curated list degrades gracefully to the letter rule alone.
func (that *Dictionary) IsValid(letter, category, rawAnswer string) bool {
	normWord := Normalize(rawAnswer)
	normLetter := firstLetter(letter)

	if normWord == "" || normLetter == "" {
		return false
	}

	if !strings.HasPrefix(normWord, normLetter) {
		return false
	}

	list := that.WordsFor(category)
	if len(list) == 0 {
		return true
	}

	for _, word := range list {
		if Normalize(word) == normWord {
			return true
		}
	}

	return false
}
