package recipe

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NotFoundName is the name the extractor reports when the image holds no recipe.
const NotFoundName = "No Recipe Found"

// Record is a recipe as extracted from an image, shaped after schema.org/Recipe.
// Every field is optional; an empty string or nil slice means the source had nothing.
type Record struct {
	Name                 string        `json:"name"`
	Description          string        `json:"description,omitempty"`
	Ingredients          []string      `json:"recipeIngredient"`
	Instructions         []Instruction `json:"recipeInstructions"`
	PrepTime             string        `json:"prepTime,omitempty"`
	CookTime             string        `json:"cookTime,omitempty"`
	Yield                string        `json:"recipeYield,omitempty"`
	Category             string        `json:"recipeCategory,omitempty"`
	Cuisine              string        `json:"recipeCuisine,omitempty"`
	Keywords             string        `json:"keywords,omitempty"`
	DishImageDescription string        `json:"dishImageDescription,omitempty"`
}

// IsNotFound reports whether the record is the extractor's "no recipe" answer.
func (r *Record) IsNotFound() bool {
	return r != nil && strings.EqualFold(strings.TrimSpace(r.Name), NotFoundName)
}

// Instruction is one entry of recipeInstructions: either PlainText or StructuredStep.
type Instruction interface {
	instruction()
}

// PlainText is an instruction given as a bare string.
type PlainText string

// StructuredStep is an instruction given as a HowToStep object.
type StructuredStep struct {
	Text string `json:"text"`
}

func (PlainText) instruction()      {}
func (StructuredStep) instruction() {}

// InstructionText returns the text carried by either instruction variant.
func InstructionText(in Instruction) string {
	switch v := in.(type) {
	case PlainText:
		return string(v)
	case StructuredStep:
		return v.Text
	case *StructuredStep:
		if v == nil {
			return ""
		}
		return v.Text
	default:
		return ""
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface for Record.
// Model output is loosely shaped, so any well-formed JSON value is accepted for
// every field and coerced to the closest meaning rather than rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	aux := struct {
		Name                 looseString     `json:"name"`
		Description          looseString     `json:"description"`
		Ingredients          json.RawMessage `json:"recipeIngredient"`
		Instructions         json.RawMessage `json:"recipeInstructions"`
		PrepTime             looseString     `json:"prepTime"`
		CookTime             looseString     `json:"cookTime"`
		Yield                json.RawMessage `json:"recipeYield"`
		Category             looseString     `json:"recipeCategory"`
		Cuisine              looseString     `json:"recipeCuisine"`
		Keywords             looseString     `json:"keywords"`
		DishImageDescription looseString     `json:"dishImageDescription"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Record{
		Name:                 string(aux.Name),
		Description:          string(aux.Description),
		Ingredients:          decodeIngredients(aux.Ingredients),
		Instructions:         decodeInstructions(aux.Instructions),
		PrepTime:             string(aux.PrepTime),
		CookTime:             string(aux.CookTime),
		Yield:                decodeYield(aux.Yield),
		Category:             string(aux.Category),
		Cuisine:              string(aux.Cuisine),
		Keywords:             string(aux.Keywords),
		DishImageDescription: string(aux.DishImageDescription),
	}
	return nil
}

// looseString accepts any JSON value; arrays are joined with ", ".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	*s = looseString(coerceText(data))
	return nil
}

func decodeIngredients(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if text := coerceText(raw); text != "" {
			return []string{text}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, coerceText(item))
	}
	return out
}

func decodeInstructions(raw json.RawMessage) []Instruction {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if isNull(raw) {
			return nil
		}
		items = []json.RawMessage{raw}
	}

	var out []Instruction
	for _, item := range items {
		out = append(out, decodeInstruction(item)...)
	}
	return out
}

// decodeInstruction yields zero or more instructions: null is dropped and a
// HowToSection is flattened into its steps.
func decodeInstruction(raw json.RawMessage) []Instruction {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		_ = json.Unmarshal(trimmed, &s)
		return []Instruction{PlainText(s)}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			var text string
			if t, ok := obj["text"]; ok && json.Unmarshal(t, &text) == nil {
				return []Instruction{StructuredStep{Text: text}}
			}
			if elems, ok := obj["itemListElement"]; ok {
				return decodeInstructions(elems)
			}
		}
	}
	return []Instruction{PlainText(compact(trimmed))}
}

func decodeYield(raw json.RawMessage) string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		for _, item := range items {
			if text := coerceText(item); text != "" {
				return text
			}
		}
		return ""
	}
	return coerceText(raw)
}

// coerceText renders any JSON value as display text.
func coerceText(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				if text := coerceText(item); text != "" {
					parts = append(parts, text)
				}
			}
			return strings.Join(parts, ", ")
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			for _, key := range []string{"text", "name"} {
				var s string
				if v, ok := obj[key]; ok && json.Unmarshal(v, &s) == nil {
					return s
				}
			}
		}
	}
	return compact(trimmed)
}

func compact(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
