package router

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/logger"
	"aldalil-gateway/internal/gateway/extract"
	"aldalil-gateway/internal/gateway/quality"
	"aldalil-gateway/internal/inference"
)

// meaningSystemPrompt instructs the chat model to answer in formal Arabic
// starting with the fixed "معنى الكلمة:" prefix.
const meaningSystemPrompt = "أنت معلم لغة إنجليزية محترف ومتخصص في تعليم اللغة العربية. " +
	"مهمتك هي شرح معنى الكلمة الإنجليزية باللغة العربية فقط. " +
	"اكتب شرحاً بسيطاً وواضحاً باللغة العربية الفصحى. لا تستخدم أي لغة أخرى. " +
	"لا تضيف أسطر جديدة أو تنسيقات إضافية. " +
	"ابدأ دائماً بـ 'معنى الكلمة:' ثم اكتب شرحاً بسيطاً باللغة العربية."

var embeddedJSONPattern = regexp.MustCompile(`\{.*\}`)

// handleTranslate runs the two-stage translation pipeline: a quality-gated
// primary loop against the translation model, then a best-effort secondary
// loop that asks a chat model for an Arabic explanation of the source word.
// The primary loop failing fails the action; the secondary loop failing
// degrades to a synthesized fallback sentence.
func handleTranslate(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	text := stringParam(params, "text", "")
	targetLang := stringParam(params, "targetLang", "ar")
	sourceLang := stringParam(params, "sourceLang", "en")

	log := r.log.With(map[string]interface{}{"action": "translate", "text": text})

	primary, err := r.opts.Primary.Run(ctx, log,
		func(ctx context.Context) (string, error) {
			raw, err := r.client.Run(ctx, inference.ModelTranslation,
				inference.TranslationPayload(text, sourceLang, targetLang))
			if err != nil {
				return "", err
			}
			return stripEmbeddedJSON(strings.TrimSpace(extract.Text(raw))), nil
		},
		func(candidate string) error {
			return r.opts.Rules.Check(quality.KindTranslation, candidate, text)
		},
	)
	if err != nil {
		log.Error("translation exhausted attempts", map[string]interface{}{"error": err.Error()})
		return Result{}, errors.NewTranslationFailedError(r.opts.Primary.MaxAttempts)
	}

	log.Info("translation accepted", map[string]interface{}{
		"translation": primary.Value,
		"attempt":     primary.Attempt,
	})

	meaning := r.wordMeaning(ctx, log, text, primary.Value)

	return Result{
		Value: map[string]interface{}{
			"translated_text": primary.Value,
			"word_meaning":    meaning,
		},
		Model: inference.ModelTranslation,
	}, nil
}

// wordMeaning never fails: exhausting the meaning loop yields the template
// fallback built from the already-accepted translation.
func (r *Router) wordMeaning(ctx context.Context, log logger.Logger, word, translation string) string {
	userPrompt := fmt.Sprintf("اشرح معنى هذه الكلمة الإنجليزية باللغة العربية: \"%s\"", word)

	result, err := r.opts.Meaning.Run(ctx, log,
		func(ctx context.Context) (string, error) {
			raw, err := r.client.Run(ctx, inference.ModelChat,
				inference.ChatPayload(meaningSystemPrompt, userPrompt, 60, 0.1))
			if err != nil {
				return "", err
			}
			return r.opts.Rules.CleanMeaning(extract.Text(raw)), nil
		},
		func(candidate string) error {
			return r.opts.Rules.Check(quality.KindWordMeaning, candidate, word)
		},
	)
	if err != nil {
		log.Warn("word meaning exhausted attempts, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return quality.FallbackMeaning(word, translation)
	}

	log.Info("word meaning accepted", map[string]interface{}{"attempt": result.Attempt})
	return result.Value
}

// stripEmbeddedJSON unwraps translations the model returned as a JSON blob
// instead of plain text. Unparseable blobs pass through untouched.
func stripEmbeddedJSON(candidate string) string {
	if !strings.Contains(candidate, "{") || !strings.Contains(candidate, "}") {
		return candidate
	}
	match := embeddedJSONPattern.FindString(candidate)
	if match == "" {
		return candidate
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return candidate
	}
	for _, field := range []string{"translated_text", "text", "translation"} {
		if s, ok := parsed[field].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return candidate
}
