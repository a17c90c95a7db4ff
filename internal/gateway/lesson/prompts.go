package lesson

import (
	"fmt"
	"time"
)

func vocabularyPrompt(topic, goal string) string {
	return fmt.Sprintf(`Generate a vocabulary list for topic: %s
Learning Goal: %s
Include 10-15 words with:
- English word
- Arabic translation
- Example sentence in English
- Example sentence in Arabic
- Part of speech
- Pronunciation guide

Format as JSON array of word objects with keys: english, arabic, pronunciation, partOfSpeech, example, exampleTranslation.`, topic, goal)
}

func grammarPrompt(topic, goal string) string {
	return fmt.Sprintf(`Create a grammar lesson about: %s
Learning Goal: %s
Include:
- Clear explanation in English and Arabic
- Formula/structure
- 5-7 example sentences in English with Arabic translations
- Common mistakes to avoid
- Practice exercises with answers

Format as JSON object with keys: rule, arabicRule, examples, practice, tips.`, topic, goal)
}

func dialoguePrompt(topic, goal string) string {
	return fmt.Sprintf(`Generate a short dialogue (4-6 lines) for lesson: %s
Learning goal: %s

Create natural conversation in English and Arabic.
Format as JSON:
{
  "lines": [
    {"english": "Line 1", "arabic": "سطر 1"},
    {"english": "Line 2", "arabic": "سطر 2"}
  ]
}`, topic, goal)
}

func quizPrompt(topic, goal string) string {
	return fmt.Sprintf(`Generate 1 final quiz question for lesson: %s
Learning goal: %s

Create a challenging but fair question with explanation.
Format as JSON:
{
  "question": "Question text?",
  "arabicQuestion": "نص السؤال؟",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correctAnswer": "Option A",
  "explanation": "Why this is correct"
}`, topic, goal)
}

func alphabetPrompt(topic, goal string) string {
	return fmt.Sprintf(`Generate alphabet learning cards for lesson: %s
Learning goal: %s

For each relevant letter provide an English word starting with it, its Arabic
translation, a pronunciation guide, an image suggestion, and an example
sentence.
Format as a JSON object keyed by letter:
{
  "a": {"english": "Apple", "arabic": "تفاحة", "pronunciation": "AP-uhl", "imageSuggestion": "a red apple", "example": "I eat an apple."}
}`, topic, goal)
}

func completeLessonPrompt(topic, goal, level, language string) string {
	return fmt.Sprintf(`Create a bilingual lesson for Arabic-speaking students learning English about "%s".
Learning Goal: %s

FORMAT REQUIREMENTS:
1. All content must be in Arabic first, followed by English translations
2. Include word-by-word translations for all English text
3. Mark all proper nouns and technical terms with [T] for TTS

Return as JSON with this structure:
{
  "title": "Lesson Title in Arabic | English",
  "description": {"arabic": "...", "english": "...", "words": [{"word": "...", "translation": "...", "partOfSpeech": "...", "example": "...", "exampleTranslation": "..."}]},
  "sections": [{"title": "...", "content": {"arabic": "...", "english": "...", "words": []}, "examples": [], "imagePrompt": "..."}],
  "vocabulary": [{"word": "...", "translation": "...", "partOfSpeech": "...", "example": "...", "exampleTranslation": "..."}],
  "practice": {"question": {"arabic": "...", "english": "...", "words": []}, "options": [], "answer": "..."},
  "metadata": {"level": "%s", "language": "%s", "createdAt": "%s"}
}`, topic, goal, level, language, time.Now().UTC().Format(time.RFC3339))
}

func storyPrompt(story string) string {
	return fmt.Sprintf(`Analyze the following short story for an Arabic-speaking English learner.
Summarize the plot, list the key vocabulary with Arabic translations, and
suggest one simple comprehension question.

Story: %s`, story)
}

func storyImagePrompt(story string) string {
	return fmt.Sprintf(`Educational illustration for a story.
Style: Clean, colorful, and educational
Content: %s
Don't include any text in the image.`, story)
}
