// Package lesson turns free-form model output into the structured learning
// content the client application renders: vocabulary lists, grammar cards,
// dialogues, quizzes, alphabet cards, and full lessons.
package lesson

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/logger"
	"aldalil-gateway/internal/gateway/codec"
	"aldalil-gateway/internal/gateway/extract"
	"aldalil-gateway/internal/inference"
)

// Generator produces structured lesson content through the inference client.
type Generator struct {
	client inference.Client
	log    logger.Logger
}

func NewGenerator(client inference.Client, log logger.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// fallbackDialogue is served when the model output cannot be parsed as
// dialogue JSON.
var fallbackDialogue = map[string]interface{}{
	"lines": []interface{}{
		map[string]interface{}{"english": "Hello, how are you?", "arabic": "مرحبا، كيف حالك؟"},
		map[string]interface{}{"english": "I'm fine, thank you. And you?", "arabic": "أنا بخير، شكرا. وأنت؟"},
		map[string]interface{}{"english": "I'm good too. What's your name?", "arabic": "أنا بخير أيضا. ما اسمك؟"},
		map[string]interface{}{"english": "My name is Ahmed. Nice to meet you.", "arabic": "اسمي أحمد. تشرفت بمقابلتك."},
	},
}

// Vocabulary generates a word list for a lesson topic.
func (g *Generator) Vocabulary(ctx context.Context, topic, goal string) (interface{}, error) {
	return g.generateStructured(ctx, "vocabulary", inference.ModelVision,
		inference.FlatPromptPayload(vocabularyPrompt(topic, goal), 1500, 0.5))
}

// Grammar generates a grammar card for a lesson topic.
func (g *Generator) Grammar(ctx context.Context, topic, goal string) (interface{}, error) {
	return g.generateStructured(ctx, "grammar", inference.ModelVision,
		inference.FlatPromptPayload(grammarPrompt(topic, goal), 2000, 0.6))
}

// Dialogue generates a short bilingual conversation. A model response that
// cannot be parsed or validated yields a fixed fallback conversation rather
// than an error.
func (g *Generator) Dialogue(ctx context.Context, topic, goal string) (interface{}, error) {
	result, err := g.generateStructured(ctx, "dialogue", inference.ModelLesson,
		inference.FlatPromptPayload(dialoguePrompt(topic, goal), 800, 0.7))
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeUpstreamInvocation {
			return nil, err
		}
		g.log.Warn("dialogue parse failed, serving fallback", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		return fallbackDialogue, nil
	}
	return result, nil
}

// Quiz generates one multiple-choice question for a lesson topic.
func (g *Generator) Quiz(ctx context.Context, topic, goal string) (interface{}, error) {
	return g.generateStructured(ctx, "quiz", inference.ModelLesson,
		inference.FlatPromptPayload(quizPrompt(topic, goal), 600, 0.7))
}

// Alphabet generates letter cards for a lesson topic.
func (g *Generator) Alphabet(ctx context.Context, topic, goal string) (interface{}, error) {
	return g.generateStructured(ctx, "alphabet", inference.ModelLesson,
		inference.FlatPromptPayload(alphabetPrompt(topic, goal), 2000, 0.5))
}

// CompleteLesson generates a full bilingual lesson document.
func (g *Generator) CompleteLesson(ctx context.Context, topic, goal, level, language string) (interface{}, error) {
	if level == "" {
		level = "beginner"
	}
	if language == "" {
		language = "ar"
	}
	return g.generateStructured(ctx, "complete-lesson", inference.ModelLesson,
		inference.FlatPromptPayload(completeLessonPrompt(topic, goal, level, language), 4000, 0.5))
}

// AnalyzeStory summarizes a story for a learner and attaches an illustration
// when image generation succeeds. The image is best effort: its failure never
// fails the analysis.
func (g *Generator) AnalyzeStory(ctx context.Context, story string) (interface{}, error) {
	raw, err := g.client.Run(ctx, inference.ModelVision,
		inference.ChatPayload("", storyPrompt(story), 1000, 0.6))
	if err != nil {
		return nil, err
	}
	analysis := extract.Text(raw)

	result := map[string]interface{}{
		"analysis": analysis,
		"hasImage": false,
	}

	imageRaw, err := g.client.Run(ctx, inference.ModelImage,
		inference.ImagePayload(storyImagePrompt(story)))
	if err != nil {
		g.log.Warn("story illustration failed", map[string]interface{}{"error": err.Error()})
		return result, nil
	}
	encoded, err := codec.Encode(imageRaw)
	if err != nil {
		g.log.Warn("story illustration not binary", map[string]interface{}{"error": err.Error()})
		return result, nil
	}
	result["hasImage"] = true
	result["image"] = encoded
	return result, nil
}

// Transcribe converts base64-encoded audio to text.
func (g *Generator) Transcribe(ctx context.Context, audio string) (interface{}, error) {
	raw, err := g.client.Run(ctx, inference.ModelTranscribe, inference.TranscribePayload(audio))
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"text":       extract.Text(raw),
		"language":   "en",
		"confidence": 0.9,
	}
	if obj, ok := raw.(map[string]interface{}); ok {
		if lang, ok := obj["language"].(string); ok && lang != "" {
			result["language"] = lang
		}
		if conf, ok := obj["confidence"].(float64); ok {
			result["confidence"] = conf
		}
	}
	return result, nil
}

// Moderate runs a safety check over text. The verdict is unsafe whenever the
// moderation model's answer mentions "unsafe".
func (g *Generator) Moderate(ctx context.Context, text string) (interface{}, error) {
	raw, err := g.client.Run(ctx, inference.ModelModeration,
		inference.ChatPayload("", text, 100, 0.1))
	if err != nil {
		return nil, err
	}
	verdict := extract.Text(raw)
	return map[string]interface{}{
		"isSafe":  !strings.Contains(strings.ToLower(verdict), "unsafe"),
		"details": verdict,
	}, nil
}

func (g *Generator) generateStructured(ctx context.Context, schemaName, model string, payload map[string]interface{}) (interface{}, error) {
	raw, err := g.client.Run(ctx, model, payload)
	if err != nil {
		return nil, err
	}

	parsed, err := parseModelJSON(extract.Text(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s content: %w", schemaName, err)
	}
	if err := validateAgainst(schemaName, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// parseModelJSON parses a model answer as JSON, tolerating the markdown code
// fences and leading prose chat models wrap their output in.
func parseModelJSON(text string) (interface{}, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	if !strings.HasPrefix(cleaned, "{") && !strings.HasPrefix(cleaned, "[") {
		start := strings.IndexAny(cleaned, "{[")
		if start < 0 {
			return nil, fmt.Errorf("no JSON payload in model output")
		}
		cleaned = cleaned[start:]
	}

	// Decode only the first value so trailing prose after the JSON does not
	// fail the parse.
	var parsed interface{}
	if err := json.NewDecoder(strings.NewReader(cleaned)).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
