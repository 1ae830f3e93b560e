package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

const objectSchema = `{
	"type": "object",
	"required": ["recommendations"],
	"properties": {
		"industry": {"type": "string"},
		"popupTitle": {"type": "string"},
		"popupSubtitle": {"type": "string"},
		"recommendations": {"type": "array"}
	}
}`

const legacyArraySchema = `{"type": "array"}`

var (
	objectResponseSchema = mustCompileSchema("object-response", objectSchema)
	legacyResponseSchema = mustCompileSchema("legacy-response", legacyArraySchema)
)

func mustCompileSchema(name, src string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://upsell.schemas.local/model/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("model: load schema %s: %v", name, err))
	}
	schema, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("model: compile schema %s: %v", name, err))
	}
	return schema
}

var errNoJSON = errors.New("no JSON value in model output")

// extractJSON returns the first balanced JSON object or array in s.
// Brackets inside string literals are ignored.
func extractJSON(s string) (string, error) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", errNoJSON
	}

	var stack []byte
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return "", fmt.Errorf("mismatched %q at offset %d", ch, i)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON starting at offset %d", start)
}

// objectResponse is the preferred reply shape.
type objectResponse struct {
	Industry        string            `json:"industry"`
	PopupTitle      string            `json:"popupTitle"`
	PopupSubtitle   string            `json:"popupSubtitle"`
	Recommendations []json.RawMessage `json:"recommendations"`
}

type candidateEntry struct {
	ID        domain.ProductID `json:"id"`
	ProductID domain.ProductID `json:"productId"`
	Reason    string           `json:"reason"`
}

// parseSuggestion decodes the model reply. It accepts the object shape or a
// bare legacy array of {id, reason}. Entries without an id or reason are dropped.
func parseSuggestion(raw string) (*domain.Suggestion, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal([]byte(doc), &generic); err != nil {
		return nil, fmt.Errorf("decode model JSON: %w", err)
	}

	var entries []json.RawMessage
	suggestion := &domain.Suggestion{}

	switch doc[0] {
	case '{':
		if err := objectResponseSchema.Validate(generic); err != nil {
			return nil, fmt.Errorf("model reply does not match object shape: %w", err)
		}
		var obj objectResponse
		if err := json.Unmarshal([]byte(doc), &obj); err != nil {
			return nil, fmt.Errorf("decode object reply: %w", err)
		}
		suggestion.Industry = strings.TrimSpace(obj.Industry)
		suggestion.PopupTitle = strings.TrimSpace(obj.PopupTitle)
		suggestion.PopupSubtitle = strings.TrimSpace(obj.PopupSubtitle)
		entries = obj.Recommendations
	default:
		if err := legacyResponseSchema.Validate(generic); err != nil {
			return nil, fmt.Errorf("model reply does not match array shape: %w", err)
		}
		if err := json.Unmarshal([]byte(doc), &entries); err != nil {
			return nil, fmt.Errorf("decode array reply: %w", err)
		}
	}

	suggestion.Candidates = decodeCandidates(entries)
	return suggestion, nil
}

func decodeCandidates(entries []json.RawMessage) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(entries))
	for _, raw := range entries {
		var e candidateEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		id := e.ID
		if id.IsZero() {
			id = e.ProductID
		}
		reason := strings.TrimSpace(e.Reason)
		if id.IsZero() || reason == "" {
			continue
		}
		out = append(out, domain.Candidate{ProductID: id, Reason: reason})
	}
	return out
}
