package lesson

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/logger"
	"aldalil-gateway/internal/inference"
)

func gatewayUpstreamErr() error {
	return errors.NewUpstreamInvocationError("model", fmt.Errorf("upstream unavailable"))
}

type stubClient struct {
	responses map[string]interface{}
	errs      map[string]error
	calls     []string
}

func (s *stubClient) Run(_ context.Context, model string, _ map[string]interface{}) (interface{}, error) {
	s.calls = append(s.calls, model)
	if err, ok := s.errs[model]; ok {
		return nil, err
	}
	return s.responses[model], nil
}

func newGenerator(t *testing.T, client *stubClient) *Generator {
	t.Helper()
	return NewGenerator(client, logger.NewTestLogger(t))
}

func TestVocabularyParsesModelJSON(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelVision: `[{"english": "book", "arabic": "كتاب", "partOfSpeech": "noun"}]`,
	}}

	result, err := newGenerator(t, client).Vocabulary(context.Background(), "Reading", "Learn nouns")
	require.NoError(t, err)

	items, ok := result.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "book", first["english"])
	assert.Equal(t, "كتاب", first["arabic"])
}

func TestVocabularyStripsCodeFences(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelVision: "```json\n[{\"english\": \"cat\", \"arabic\": \"قطة\"}]\n```",
	}}

	result, err := newGenerator(t, client).Vocabulary(context.Background(), "Animals", "Learn animals")
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestVocabularyRejectsWrongShape(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelVision: `[{"word": "no english key"}]`,
	}}

	_, err := newGenerator(t, client).Vocabulary(context.Background(), "Reading", "Learn nouns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vocabulary")
}

func TestGrammarToleratesLeadingProse(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelVision: `Here is your grammar lesson: {"rule": "Present simple", "arabicRule": "المضارع البسيط"}`,
	}}

	result, err := newGenerator(t, client).Grammar(context.Background(), "Tenses", "Present simple")
	require.NoError(t, err)

	card := result.(map[string]interface{})
	assert.Equal(t, "Present simple", card["rule"])
}

func TestDialogueFallsBackOnUnparseableOutput(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelLesson: "Sorry, I cannot produce a dialogue right now.",
	}}

	result, err := newGenerator(t, client).Dialogue(context.Background(), "Greetings", "Say hello")
	require.NoError(t, err)

	dialogue := result.(map[string]interface{})
	lines := dialogue["lines"].([]interface{})
	require.NotEmpty(t, lines)
	first := lines[0].(map[string]interface{})
	assert.Equal(t, "Hello, how are you?", first["english"])
}

func TestDialoguePropagatesInvocationFailure(t *testing.T) {
	client := &stubClient{errs: map[string]error{
		inference.ModelLesson: gatewayUpstreamErr(),
	}}

	_, err := newGenerator(t, client).Dialogue(context.Background(), "Greetings", "Say hello")
	assert.Error(t, err)
}

func TestQuizValidation(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelLesson: `{"question": "Pick one", "arabicQuestion": "اختر", "options": ["A", "B", "C", "D"], "correctAnswer": "A", "explanation": "because"}`,
	}}

	result, err := newGenerator(t, client).Quiz(context.Background(), "Colors", "Name colors")
	require.NoError(t, err)

	quiz := result.(map[string]interface{})
	assert.Equal(t, "A", quiz["correctAnswer"])
	assert.Len(t, quiz["options"], 4)
}

func TestAlphabetValidation(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelLesson: `{"a": {"english": "Apple", "arabic": "تفاحة"}, "b": {"english": "Ball", "arabic": "كرة"}}`,
	}}

	result, err := newGenerator(t, client).Alphabet(context.Background(), "Letters", "Learn the alphabet")
	require.NoError(t, err)

	cards := result.(map[string]interface{})
	assert.Len(t, cards, 2)
}

func TestCompleteLessonDefaults(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelLesson: `{"title": "درس | Lesson", "sections": [], "vocabulary": []}`,
	}}

	result, err := newGenerator(t, client).CompleteLesson(context.Background(), "Food", "Order food", "", "")
	require.NoError(t, err)

	doc := result.(map[string]interface{})
	assert.Equal(t, "درس | Lesson", doc["title"])
}

func TestAnalyzeStoryWithImage(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelVision: "A curious cat learns English.",
		inference.ModelImage:  []byte{0x89, 0x50, 0x4e, 0x47},
	}}

	result, err := newGenerator(t, client).AnalyzeStory(context.Background(), "Once upon a time...")
	require.NoError(t, err)

	analysis := result.(map[string]interface{})
	assert.Equal(t, "A curious cat learns English.", analysis["analysis"])
	assert.Equal(t, true, analysis["hasImage"])
	assert.NotEmpty(t, analysis["image"])
}

func TestAnalyzeStorySurvivesImageFailure(t *testing.T) {
	client := &stubClient{
		responses: map[string]interface{}{
			inference.ModelVision: "A curious cat learns English.",
		},
		errs: map[string]error{
			inference.ModelImage: gatewayUpstreamErr(),
		},
	}

	result, err := newGenerator(t, client).AnalyzeStory(context.Background(), "Once upon a time...")
	require.NoError(t, err)

	analysis := result.(map[string]interface{})
	assert.Equal(t, false, analysis["hasImage"])
	assert.NotContains(t, analysis, "image")
}

func TestTranscribeDefaults(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelTranscribe: map[string]interface{}{"text": "hello world"},
	}}

	result, err := newGenerator(t, client).Transcribe(context.Background(), "UklGRg==")
	require.NoError(t, err)

	transcription := result.(map[string]interface{})
	assert.Equal(t, "hello world", transcription["text"])
	assert.Equal(t, "en", transcription["language"])
	assert.Equal(t, 0.9, transcription["confidence"])
}

func TestTranscribeKeepsModelMetadata(t *testing.T) {
	client := &stubClient{responses: map[string]interface{}{
		inference.ModelTranscribe: map[string]interface{}{
			"text":       "مرحبا",
			"language":   "ar",
			"confidence": 0.72,
		},
	}}

	result, err := newGenerator(t, client).Transcribe(context.Background(), "UklGRg==")
	require.NoError(t, err)

	transcription := result.(map[string]interface{})
	assert.Equal(t, "ar", transcription["language"])
	assert.Equal(t, 0.72, transcription["confidence"])
}

func TestModerateVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		verdict string
		isSafe  bool
	}{
		{"safe text", "safe", true},
		{"unsafe text", "unsafe\nS1: Violent Crimes", false},
		{"mixed case", "UNSAFE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{responses: map[string]interface{}{
				inference.ModelModeration: tt.verdict,
			}}

			result, err := newGenerator(t, client).Moderate(context.Background(), "some text")
			require.NoError(t, err)

			moderation := result.(map[string]interface{})
			assert.Equal(t, tt.isSafe, moderation["isSafe"])
			assert.Equal(t, tt.verdict, moderation["details"])
		})
	}
}
