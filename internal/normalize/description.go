package normalize

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

// allowedPunct is tolerated in descriptions besides letters, digits,
// '_' and spaces.
const allowedPunct = `-.,!?()№/\`

var stopWords = map[string]bool{
	"для": true, "при": true, "без": true, "над": true, "под": true,
	"про": true, "как": true, "что": true, "где": true, "когда": true,
}

// DescriptionNormalizer cleans free-text transaction descriptions.
type DescriptionNormalizer struct{}

// NewDescriptionNormalizer creates a DescriptionNormalizer.
func NewDescriptionNormalizer() *DescriptionNormalizer {
	return &DescriptionNormalizer{}
}

// Clean returns the trimmed original, a lowercased whitespace-collapsed
// copy, and flags for control or unusual characters.
func (n *DescriptionNormalizer) Clean(raw string) (string, string, []model.QualityFlag) {
	trimmed := strings.TrimSpace(norm.NFC.String(raw))
	if trimmed == "" {
		return "", "", []model.QualityFlag{model.FlagMissingField}
	}

	var flags []model.QualityFlag
	cleaned := trimmed
	if strings.IndexFunc(cleaned, isControl) >= 0 {
		cleaned = strings.Map(func(r rune) rune {
			if isControl(r) {
				return ' '
			}
			return r
		}, cleaned)
		flags = append(flags, model.FlagSpecialChars)
	}

	cleaned = collapseSpaces(cleaned)
	if strings.IndexFunc(cleaned, isUnusual) >= 0 {
		flags = append(flags, model.FlagSpecialChars)
	}

	// Casers are stateful; one per call keeps Clean goroutine-safe.
	lower := cases.Lower(language.Und).String(cleaned)
	return trimmed, strings.TrimSpace(lower), flags
}

// NormalizeText lowercases and collapses whitespace without flagging.
func (n *DescriptionNormalizer) NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(cases.Lower(language.Und).String(strings.TrimSpace(s)))
}

// Keywords returns the distinct words of three or more letters, minus
// common Russian stop words, sorted.
func (n *DescriptionNormalizer) Keywords(s string) []string {
	if s == "" {
		return nil
	}
	words := strings.FieldsFunc(cases.Lower(language.Und).String(s), func(r rune) bool {
		return !isWord(r)
	})
	seen := make(map[string]bool)
	var out []string
	for _, w := range words {
		if utf8.RuneCountInString(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isControl matches C0 and C1 control characters, including tab and newline.
func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isUnusual(r rune) bool {
	return !isWord(r) && !unicode.IsSpace(r) && !strings.ContainsRune(allowedPunct, r)
}
