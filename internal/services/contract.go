package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/cv-architect/internal/models"
)

// ContractValidator checks decoded model responses against the local
// contract and narrows them into domain types. It never fills in defaults.
type ContractValidator struct {
	cvSchema     *gojsonschema.Schema
	ratingSchema *gojsonschema.Schema
}

func NewContractValidator() (*ContractValidator, error) {
	cvSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(cvContractSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load CV contract schema: %w", err)
	}

	ratingSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(ratingContractSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load rating contract schema: %w", err)
	}

	return &ContractValidator{cvSchema: cvSchema, ratingSchema: ratingSchema}, nil
}

// MustContractValidator panics if the embedded schemas fail to compile.
func MustContractValidator() *ContractValidator {
	v, err := NewContractValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// DecodeResponse parses the model's JSON text into a generic object.
func DecodeResponse(text string) (any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}
	return decoded, nil
}

// ValidateCV accepts a decoded generate/refine response.
func (v *ContractValidator) ValidateCV(op Operation, decoded any) (models.GeneratedCv, error) {
	if err := v.check(v.cvSchema, op, decoded); err != nil {
		return models.GeneratedCv{}, err
	}

	obj := decoded.(map[string]any)
	return models.GeneratedCv{
		Name:           obj["personName"].(string),
		HTML:           obj["html"].(string),
		JobSuggestions: toStrings(obj["jobSuggestions"]),
		Style:          models.CvStyle(obj["style"].(string)),
	}, nil
}

// ValidateRating accepts a decoded rate response. A score of 0 is valid.
func (v *ContractValidator) ValidateRating(decoded any) (models.CvRatingReport, error) {
	if err := v.check(v.ratingSchema, OpRate, decoded); err != nil {
		return models.CvRatingReport{}, err
	}

	obj := decoded.(map[string]any)
	return models.CvRatingReport{
		Score:           toFloat(obj["score"]),
		Pros:            toStrings(obj["pros"]),
		Cons:            toStrings(obj["cons"]),
		OverallFeedback: obj["overallFeedback"].(string),
	}, nil
}

func (v *ContractValidator) check(schema *gojsonschema.Schema, op Operation, decoded any) error {
	if _, ok := decoded.(map[string]any); !ok {
		return &MalformedResponseError{
			Op:     op,
			Fields: []FieldError{{Field: "(root)", Message: "response is not a JSON object"}},
			Raw:    decoded,
		}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(decoded))
	if err != nil {
		return &MalformedResponseError{
			Op:     op,
			Fields: []FieldError{{Field: "(root)", Message: err.Error()}},
			Raw:    decoded,
		}
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		if field == "" {
			field = "(root)"
		}
		fields = append(fields, FieldError{Field: field, Message: desc.Description()})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return &MalformedResponseError{Op: op, Fields: fields, Raw: decoded}
}

// cleanJSONBlock removes markdown code block wrappers from JSON
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func toStrings(value any) []string {
	items, _ := value.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toFloat(value any) float64 {
	switch n := value.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	case int:
		return float64(n)
	}
	return 0
}
