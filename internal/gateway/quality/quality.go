// Package quality decides whether a candidate model result is acceptable.
// This is the only place policy knowledge about "what a good answer looks
// like" lives; every other stage is policy-agnostic.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"aldalil-gateway/internal/common/errors"
)

// Kind names the task whose output is being gated.
type Kind string

const (
	KindGeneratedText Kind = "generated-text"
	KindTranslation   Kind = "translation"
	KindWordMeaning   Kind = "word-meaning"
)

// MeaningPrefix is the fixed Arabic prefix every word-meaning explanation
// must carry: "معنى الكلمة:" (meaning of the word).
const MeaningPrefix = "معنى الكلمة:"

// notAvailableMarker is the upstream's literal "not available" filler.
const notAvailableMarker = "غير متوفر"

// Rules holds the acceptance thresholds. The values are empirically tuned
// against the upstream models, not derived from a requirement; keep them
// configurable rather than inferring stricter semantics.
type Rules struct {
	MaxTranslationRunes int
	MinMeaningWords     int
	MinMeaningRunes     int
	MaxMeaningRunes     int
	MeaningTruncateAt   int
}

func DefaultRules() Rules {
	return Rules{
		MaxTranslationRunes: 100,
		MinMeaningWords:     3,
		MinMeaningRunes:     25,
		MaxMeaningRunes:     150,
		MeaningTruncateAt:   120,
	}
}

var (
	arabicRune = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)
	// The Arabic question mark is the upstream model's way of signalling
	// "untranslatable"; a translation may not contain one at all, while a
	// meaning sentence is only rejected for runs of them.
	placeholderAny = regexp.MustCompile(`[؟]|[?]{2,}`)
	placeholderRun = regexp.MustCompile(`[؟?]{2,}`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	// Keep Arabic blocks, Latin letters, digits, and basic punctuation.
	disallowedRunes = regexp.MustCompile(`[^\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}a-zA-Z0-9\s.,:;!?()؟]`)
)

// Check returns nil when the candidate passes the gate for the given task
// kind, or a quality-rejected error naming the failed rule. The source
// argument is the original input word/text; it is only consulted for
// word-meaning candidates.
func (r Rules) Check(kind Kind, candidate, source string) error {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return errors.NewQualityRejectedError("empty result")
	}

	switch kind {
	case KindTranslation:
		return r.checkTranslation(trimmed)
	case KindWordMeaning:
		return r.checkMeaning(trimmed, source)
	default:
		return nil
	}
}

func (r Rules) checkTranslation(candidate string) error {
	if utf8.RuneCountInString(candidate) >= r.MaxTranslationRunes {
		return errors.NewQualityRejectedError(fmt.Sprintf("translation exceeds %d characters", r.MaxTranslationRunes))
	}
	if placeholderAny.MatchString(candidate) {
		return errors.NewQualityRejectedError("translation contains placeholder glyphs")
	}
	if !arabicRune.MatchString(candidate) {
		return errors.NewQualityRejectedError("translation contains no Arabic characters")
	}
	return nil
}

func (r Rules) checkMeaning(candidate, source string) error {
	if !strings.Contains(candidate, MeaningPrefix) {
		return errors.NewQualityRejectedError("meaning missing required prefix")
	}
	runes := utf8.RuneCountInString(candidate)
	if runes <= r.MinMeaningRunes || runes >= r.MaxMeaningRunes {
		return errors.NewQualityRejectedError(fmt.Sprintf("meaning length %d outside (%d, %d)", runes, r.MinMeaningRunes, r.MaxMeaningRunes))
	}
	if strings.Contains(candidate, notAvailableMarker) {
		return errors.NewQualityRejectedError("meaning is the not-available filler")
	}
	if placeholderRun.MatchString(candidate) {
		return errors.NewQualityRejectedError("meaning contains placeholder glyphs")
	}
	if !arabicRune.MatchString(candidate) {
		return errors.NewQualityRejectedError("meaning contains no Arabic characters")
	}
	if source != "" && strings.Contains(candidate, source) {
		return errors.NewQualityRejectedError("meaning echoes the source word")
	}
	if len(strings.Fields(candidate)) <= r.MinMeaningWords {
		return errors.NewQualityRejectedError("meaning is not a full sentence")
	}
	return nil
}

// CleanMeaning normalizes a raw meaning candidate before gating: collapses
// whitespace, strips glyphs outside the allowed blocks, enforces the
// MeaningPrefix, and truncates runaway output.
func (r Rules) CleanMeaning(raw string) string {
	cleaned := whitespaceRun.ReplaceAllString(strings.TrimSpace(raw), " ")
	cleaned = disallowedRunes.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return cleaned
	}
	if !strings.HasPrefix(cleaned, MeaningPrefix) {
		cleaned = MeaningPrefix + " " + cleaned
	}
	if utf8.RuneCountInString(cleaned) > r.MeaningTruncateAt {
		cleaned = string([]rune(cleaned)[:r.MeaningTruncateAt]) + "..."
	}
	return cleaned
}

// FallbackMeaning synthesizes the templated explanation used when every
// meaning attempt is rejected: the secondary text is supplementary and must
// never block the response.
func FallbackMeaning(word, translation string) string {
	return fmt.Sprintf("%s %s تعني \"%s\" في اللغة العربية", MeaningPrefix, word, translation)
}

// ContainsArabic reports whether the value has at least one rune from the
// Arabic block.
func ContainsArabic(s string) bool {
	return arabicRune.MatchString(s)
}
