package router

import (
	"context"

	"aldalil-gateway/internal/gateway/codec"
	"aldalil-gateway/internal/gateway/extract"
	"aldalil-gateway/internal/inference"
)

// connectionOKMessage mirrors the reference client's healthy-gateway reply.
const connectionOKMessage = "Worker is online and responding"

func buildActionTable() map[string]actionSpec {
	return map[string]actionSpec{
		"generate-text": {
			required:  []string{"prompt"},
			model:     inference.ModelChat,
			cacheable: true,
			handle:    handleGenerateText,
		},
		"translate": {
			required:  []string{"text"},
			model:     inference.ModelTranslation,
			cacheable: true,
			handle:    handleTranslate,
		},
		"generate-speech": {
			required:  []string{"text"},
			model:     inference.ModelSpeech,
			cacheable: true,
			handle:    handleGenerateSpeech,
		},
		"generate-image": {
			required:  []string{"prompt"},
			model:     inference.ModelImage,
			cacheable: true,
			handle:    handleGenerateImage,
		},
		"analyze-story": {
			required:  []string{"story"},
			model:     inference.ModelVision,
			cacheable: true,
			handle:    handleAnalyzeStory,
		},
		"test-connection": {
			model:  inference.ModelChat,
			handle: handleTestConnection,
		},
		"generate-vocabulary": {
			required:  []string{"lesson", "goal"},
			model:     inference.ModelVision,
			cacheable: true,
			handle:    lessonHandler(inference.ModelVision, (*Router).vocabulary),
		},
		"generate-grammar": {
			required:  []string{"lesson", "goal"},
			model:     inference.ModelVision,
			cacheable: true,
			handle:    lessonHandler(inference.ModelVision, (*Router).grammar),
		},
		"generate-dialogue": {
			required:  []string{"lesson", "goal"},
			model:     inference.ModelLesson,
			cacheable: true,
			handle:    lessonHandler(inference.ModelLesson, (*Router).dialogue),
		},
		"generate-quiz": {
			required:  []string{"lesson", "goal"},
			model:     inference.ModelLesson,
			cacheable: true,
			handle:    lessonHandler(inference.ModelLesson, (*Router).quiz),
		},
		"generate-alphabet": {
			required:  []string{"lesson", "goal"},
			model:     inference.ModelLesson,
			cacheable: true,
			handle:    lessonHandler(inference.ModelLesson, (*Router).alphabet),
		},
		"generate-complete-lesson": {
			required:  []string{"lesson", "goal"},
			model:     inference.ModelLesson,
			cacheable: true,
			handle:    handleCompleteLesson,
		},
		"transcribe-audio": {
			required:  []string{"audio"},
			model:     inference.ModelTranscribe,
			cacheable: true,
			handle:    handleTranscribeAudio,
		},
		"moderate-content": {
			required: []string{"text"},
			model:    inference.ModelModeration,
			handle:   handleModerateContent,
		},
	}
}

func handleGenerateText(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	prompt := stringParam(params, "prompt", "")
	model := stringParam(params, "model", inference.ModelChat)

	raw, err := r.client.Run(ctx, model, inference.ChatOrInputPayload(model, prompt))
	if err != nil {
		return Result{}, err
	}
	return Result{Value: extract.Text(raw), Model: model}, nil
}

func handleGenerateSpeech(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	text := stringParam(params, "text", "")
	lang := stringParam(params, "lang", "en")

	raw, err := r.client.Run(ctx, inference.ModelSpeech, inference.SpeechPayload(text, lang))
	if err != nil {
		return Result{}, err
	}

	encoded, err := encodeBinaryField(raw, "audio")
	if err != nil {
		return Result{}, err
	}
	return Result{
		Value: encoded,
		Model: inference.ModelSpeech,
		Extra: map[string]string{"audioFormat": "base64"},
	}, nil
}

func handleGenerateImage(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	prompt := stringParam(params, "prompt", "")

	raw, err := r.client.Run(ctx, inference.ModelImage, inference.ImagePayload(prompt))
	if err != nil {
		return Result{}, err
	}

	encoded, err := encodeBinaryField(raw, "image")
	if err != nil {
		return Result{}, err
	}
	return Result{
		Value: encoded,
		Model: inference.ModelImage,
		Extra: map[string]string{"imageFormat": "base64"},
	}, nil
}

// encodeBinaryField accepts either a raw binary value or an object carrying
// the payload under a named field, as some models wrap their output.
func encodeBinaryField(raw interface{}, field string) (string, error) {
	if obj, ok := raw.(map[string]interface{}); ok {
		for _, key := range []string{field, "data"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return codec.Encode(raw)
}

func handleAnalyzeStory(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	value, err := r.lessons.AnalyzeStory(ctx, stringParam(params, "story", ""))
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value, Model: inference.ModelVision}, nil
}

func handleTestConnection(_ context.Context, _ *Router, _ map[string]interface{}) (Result, error) {
	return Result{Value: connectionOKMessage, Model: "connection-test"}, nil
}

type lessonFunc func(r *Router, ctx context.Context, topic, goal string) (interface{}, error)

func lessonHandler(model string, generate lessonFunc) handlerFunc {
	return func(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
		topic := stringParam(params, "lesson", "")
		goal := stringParam(params, "goal", "")

		value, err := generate(r, ctx, topic, goal)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: value, Model: model}, nil
	}
}

func (r *Router) vocabulary(ctx context.Context, topic, goal string) (interface{}, error) {
	return r.lessons.Vocabulary(ctx, topic, goal)
}

func (r *Router) grammar(ctx context.Context, topic, goal string) (interface{}, error) {
	return r.lessons.Grammar(ctx, topic, goal)
}

func (r *Router) dialogue(ctx context.Context, topic, goal string) (interface{}, error) {
	return r.lessons.Dialogue(ctx, topic, goal)
}

func (r *Router) quiz(ctx context.Context, topic, goal string) (interface{}, error) {
	return r.lessons.Quiz(ctx, topic, goal)
}

func (r *Router) alphabet(ctx context.Context, topic, goal string) (interface{}, error) {
	return r.lessons.Alphabet(ctx, topic, goal)
}

func handleCompleteLesson(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	value, err := r.lessons.CompleteLesson(ctx,
		stringParam(params, "lesson", ""),
		stringParam(params, "goal", ""),
		stringParam(params, "level", ""),
		stringParam(params, "language", ""))
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value, Model: inference.ModelLesson}, nil
}

func handleTranscribeAudio(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	value, err := r.lessons.Transcribe(ctx, stringParam(params, "audio", ""))
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value, Model: inference.ModelTranscribe}, nil
}

func handleModerateContent(ctx context.Context, r *Router, params map[string]interface{}) (Result, error) {
	value, err := r.lessons.Moderate(ctx, stringParam(params, "text", ""))
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value, Model: inference.ModelModeration}, nil
}
