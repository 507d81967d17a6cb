package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rag-tutor/internal/domain"
)

const systemPrompt = "You are a meticulous quiz builder for primary school language lessons. " +
	"Reply with a single JSON object and nothing else."

// quizSchema is the output contract sent with every generation request.
var quizSchema = &domain.ResponseSchema{
	Name: "quiz",
	Schema: map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"title", "subject", "year", "passage", "items"},
		"properties": map[string]interface{}{
			"title":   map[string]interface{}{"type": "string"},
			"subject": map[string]interface{}{"type": "string"},
			"year":    map[string]interface{}{"type": "integer"},
			"passage": map[string]interface{}{"type": []string{"string", "null"}},
			"items": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"id", "type", "question", "choices", "answer", "explanation", "requiresPassage"},
					"properties": map[string]interface{}{
						"id":       map[string]interface{}{"type": "string"},
						"type":     map[string]interface{}{"type": "string", "enum": []string{"mcq", "short"}},
						"question": map[string]interface{}{"type": "string"},
						"choices": map[string]interface{}{
							"type":  []string{"array", "null"},
							"items": map[string]interface{}{"type": "string"},
						},
						"answer":          map[string]interface{}{"type": "string"},
						"explanation":     map[string]interface{}{"type": "string"},
						"requiresPassage": map[string]interface{}{"type": "boolean"},
					},
				},
			},
		},
	},
}

func schemaJSON() string {
	b, err := json.MarshalIndent(quizSchema.Schema, "", "  ")
	if err != nil {
		// static schema, cannot fail
		panic(err)
	}
	return string(b)
}

func languageInstruction(mode domain.LanguageMode) string {
	switch mode {
	case domain.LanguageBMOnly:
		return "Write every question, choice, answer and explanation in Bahasa Melayu only."
	case domain.LanguageENOnly:
		return "Write questions and explanations in English. Quote Malay words exactly where the lesson needs them."
	default:
		return "Write questions and answers in Bahasa Melayu. Explanations may add a short English gloss."
	}
}

func buildUserPrompt(req domain.QuizRequest, contextBlock string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s quiz for Year %d pupils on the topic %q in subject %s.\n", req.Difficulty, req.Year, req.Topic, req.Subject)
	fmt.Fprintf(&b, "Produce exactly %d items.\n\n", req.Count)

	b.WriteString("Question mixture:\n")
	b.WriteString("- about 40% comprehension questions anchored on a short passage you write from the context\n")
	b.WriteString("- about 20% grammar (tatabahasa)\n")
	b.WriteString("- about 20% idioms and proverbs (simpulan bahasa, peribahasa)\n")
	b.WriteString("- about 20% vocabulary (kosa kata, sinonim, antonim)\n")
	b.WriteString("Use type \"mcq\" for roughly 60% of items with 3 or 4 choices and an answer equal to one choice verbatim. Use type \"short\" for the rest with choices null.\n\n")

	b.WriteString("Passage rules:\n")
	b.WriteString("- If any question refers to a passage (for example \"Berdasarkan petikan\" or \"based on the passage\"), the \"passage\" field MUST contain that passage.\n")
	b.WriteString("- Every such question MUST have \"requiresPassage\": true.\n")
	b.WriteString("- If no question needs a passage, set \"passage\" to null and every \"requiresPassage\" to false.\n\n")

	b.WriteString(languageInstruction(req.LanguageMode))
	b.WriteString("\nGive each item a unique id such as \"q1\", \"q2\". Keep explanations to one or two sentences.\n\n")

	b.WriteString("Output JSON schema:\n")
	b.WriteString(schemaJSON())
	b.WriteString("\n\n")

	if strings.TrimSpace(contextBlock) == "" {
		b.WriteString("No syllabus context was found. Stay within typical Year-level material for the topic.\n")
	} else {
		b.WriteString("Syllabus context:\n")
		b.WriteString(contextBlock)
		b.WriteString("\n")
	}
	return b.String()
}

// retryNote explains the previous failure to the model and restates the
// field it must fill in.
func retryNote(prev error) string {
	var b strings.Builder
	b.WriteString("Your previous reply was rejected: ")
	b.WriteString(prev.Error())
	b.WriteString(".\n")
	switch {
	case errors.Is(prev, domain.ErrPassageMissing):
		b.WriteString("Some questions refer to a passage but \"passage\" was empty. Include the full passage text in \"passage\", or rewrite those questions so they do not refer to a passage.\n")
	case errors.Is(prev, domain.ErrPassageFlagMissing):
		b.WriteString("Set \"requiresPassage\": true on every question that refers to the passage.\n")
	case errors.Is(prev, errUnparseable):
		b.WriteString("Reply with one JSON object that matches the schema exactly, with no prose or code fences.\n")
	default:
		b.WriteString("Make sure every item has id, type, question, answer and explanation, and that mcq items list their choices.\n")
	}
	b.WriteString("Remember: a non-empty \"passage\" is required whenever any question refers to it, and those questions need \"requiresPassage\": true.")
	return b.String()
}

func buildMessages(req domain.QuizRequest, contextBlock string, prev error) []domain.ChatMessage {
	msgs := []domain.ChatMessage{
		domain.SystemMessage(systemPrompt),
		domain.UserMessage(buildUserPrompt(req, contextBlock)),
	}
	if prev != nil {
		msgs = append(msgs, domain.UserMessage(retryNote(prev)))
	}
	return msgs
}
