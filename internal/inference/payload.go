package inference

// Model identifiers for the backing inference platform.
const (
	ModelChat        = "@cf/meta/llama-2-7b-chat-int8"
	ModelChatLarge   = "@cf/openai/gpt-oss-120b"
	ModelLesson      = "@cf/meta/llama-3.3-70b-instruct-fp8-fast"
	ModelVision      = "@cf/meta/llama-3.2-11b-vision-instruct"
	ModelTranslation = "@cf/meta/m2m100-1.2b"
	ModelSpeech      = "@cf/myshell-ai/melotts"
	ModelImage       = "@cf/stabilityai/stable-diffusion-xl-base-1.0"
	ModelTranscribe  = "@cf/openai/whisper-large-v3-turbo"
	ModelModeration  = "@cf/meta/llama-guard-3-8b"
)

// Message is one role-tagged entry in a chat-style payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatPayload builds the chat-style message-list shape used by conversational
// models. An empty system prompt yields a user-only message list.
func ChatPayload(system, user string, maxTokens int, temperature float64) map[string]interface{} {
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	payload := map[string]interface{}{"messages": messages}
	if maxTokens > 0 {
		payload["max_tokens"] = maxTokens
	}
	if temperature > 0 {
		payload["temperature"] = temperature
	}
	return payload
}

// FlatPromptPayload builds the single prompt-field shape used by the large
// lesson models.
func FlatPromptPayload(prompt string, maxTokens int, temperature float64) map[string]interface{} {
	payload := map[string]interface{}{"prompt": prompt}
	if maxTokens > 0 {
		payload["max_tokens"] = maxTokens
	}
	if temperature > 0 {
		payload["temperature"] = temperature
	}
	return payload
}

// InputPayload builds the flat input shape expected by gpt-oss style models.
func InputPayload(prompt string) map[string]interface{} {
	return map[string]interface{}{"input": prompt}
}

// TranslationPayload builds the text/source/target triple for the
// translation model.
func TranslationPayload(text, sourceLang, targetLang string) map[string]interface{} {
	return map[string]interface{}{
		"text":        text,
		"source_lang": sourceLang,
		"target_lang": targetLang,
	}
}

// SpeechPayload builds the prompt/lang pair for the speech model.
func SpeechPayload(text, lang string) map[string]interface{} {
	return map[string]interface{}{
		"prompt": text,
		"lang":   lang,
	}
}

// ImagePayload builds the image-generation shape.
func ImagePayload(prompt string) map[string]interface{} {
	return map[string]interface{}{
		"prompt":    prompt,
		"height":    512,
		"width":     512,
		"num_steps": 20,
	}
}

// TranscribePayload wraps base64-encoded audio for the speech-to-text model.
func TranscribePayload(audio string) map[string]interface{} {
	return map[string]interface{}{
		"audio":    audio,
		"language": "en",
	}
}

// ChatOrInputPayload picks the payload shape for a free-form prompt based on
// the model: gpt-oss expects a flat input field, everything else chat messages.
func ChatOrInputPayload(model, prompt string) map[string]interface{} {
	if model == ModelChatLarge {
		return InputPayload(prompt)
	}
	return ChatPayload("", prompt, 0, 0)
}
