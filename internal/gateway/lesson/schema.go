package lesson

import "github.com/xeipuuv/gojsonschema"

// Schemas are intentionally loose: they pin the shape the prompt asks for
// without rejecting the extra fields models like to add.
const (
	vocabularySchema = `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["english", "arabic"],
			"properties": {
				"english": {"type": "string"},
				"arabic": {"type": "string"},
				"pronunciation": {"type": "string"},
				"partOfSpeech": {"type": "string"},
				"example": {"type": "string"},
				"exampleTranslation": {"type": "string"}
			}
		}
	}`

	grammarSchema = `{
		"type": "object",
		"required": ["rule"],
		"properties": {
			"rule": {"type": "string"},
			"arabicRule": {"type": "string"},
			"examples": {"type": "array"},
			"practice": {},
			"tips": {}
		}
	}`

	dialogueSchema = `{
		"type": "object",
		"required": ["lines"],
		"properties": {
			"lines": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["english", "arabic"],
					"properties": {
						"english": {"type": "string"},
						"arabic": {"type": "string"}
					}
				}
			}
		}
	}`

	quizSchema = `{
		"type": "object",
		"required": ["question", "options", "correctAnswer"],
		"properties": {
			"question": {"type": "string"},
			"arabicQuestion": {"type": "string"},
			"options": {"type": "array", "minItems": 2},
			"correctAnswer": {"type": "string"},
			"explanation": {"type": "string"}
		}
	}`

	alphabetSchema = `{
		"type": "object",
		"minProperties": 1,
		"additionalProperties": {
			"type": "object",
			"required": ["english", "arabic"],
			"properties": {
				"english": {"type": "string"},
				"arabic": {"type": "string"},
				"pronunciation": {"type": "string"},
				"imageSuggestion": {"type": "string"},
				"example": {"type": "string"}
			}
		}
	}`

	completeLessonSchema = `{
		"type": "object",
		"required": ["title", "sections", "vocabulary"],
		"properties": {
			"title": {"type": "string"},
			"description": {"type": "object"},
			"sections": {"type": "array"},
			"vocabulary": {"type": "array"},
			"practice": {"type": "object"},
			"metadata": {"type": "object"}
		}
	}`
)

var schemaLoaders = map[string]gojsonschema.JSONLoader{
	"vocabulary":      gojsonschema.NewStringLoader(vocabularySchema),
	"grammar":         gojsonschema.NewStringLoader(grammarSchema),
	"dialogue":        gojsonschema.NewStringLoader(dialogueSchema),
	"quiz":            gojsonschema.NewStringLoader(quizSchema),
	"alphabet":        gojsonschema.NewStringLoader(alphabetSchema),
	"complete-lesson": gojsonschema.NewStringLoader(completeLessonSchema),
}

func validateAgainst(schemaName string, value interface{}) error {
	loader, ok := schemaLoaders[schemaName]
	if !ok {
		return nil
	}
	result, err := gojsonschema.Validate(loader, gojsonschema.NewGoLoader(value))
	if err != nil {
		return err
	}
	if !result.Valid() {
		return &validationError{schema: schemaName, issues: result.Errors()}
	}
	return nil
}

type validationError struct {
	schema string
	issues []gojsonschema.ResultError
}

func (e *validationError) Error() string {
	msg := "lesson content does not match " + e.schema + " schema"
	if len(e.issues) > 0 {
		msg += ": " + e.issues[0].String()
	}
	return msg
}
