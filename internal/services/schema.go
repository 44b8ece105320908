package services

import "google.golang.org/genai"

// cvResponseSchema is the output shape declared to the model for generate and refine.
var cvResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"personName": {
			Type:        genai.TypeString,
			Description: "Full name of the person the CV is for, taken from the input. E.g. 'Jane Doe'.",
		},
		"html": {
			Type:        genai.TypeString,
			Description: "The complete CV as HTML styled with Tailwind CSS classes inside a single root div.",
		},
		"jobSuggestions": {
			Type:        genai.TypeArray,
			Description: "3 to 5 specific job titles this CV suits, e.g. ['Software Engineer', 'Frontend Developer']. MUST be populated.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"style": {
			Type:        genai.TypeString,
			Enum:        []string{"Modern", "Classic", "Creative"},
			Description: "The CV style used. MUST be one of 'Modern', 'Classic' or 'Creative'.",
		},
	},
	Required: []string{"personName", "html", "jobSuggestions", "style"},
}

// ratingResponseSchema is the output shape declared to the model for rate.
var ratingResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score": {
			Type:        genai.TypeNumber,
			Description: "Overall quality and job readiness from 0 to 10, e.g. 8.5.",
		},
		"pros": {
			Type:        genai.TypeArray,
			Description: "Strengths of the CV from a recruiter's point of view.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"cons": {
			Type:        genai.TypeArray,
			Description: "Weaknesses or improvement areas from a recruiter's point of view.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"overallFeedback": {
			Type:        genai.TypeString,
			Description: "One concise paragraph summarizing effectiveness and the most important next steps.",
		},
	},
	Required: []string{"score", "pros", "cons", "overallFeedback"},
}

// The JSON Schemas below are the local contract checked after decoding. They
// are stricter than what the model is told: strings must contain a
// non-whitespace character and jobSuggestions must have at least one entry.

const cvContractSchema = `{
  "type": "object",
  "required": ["personName", "html", "jobSuggestions", "style"],
  "properties": {
    "personName": {"type": "string", "pattern": "\\S"},
    "html": {"type": "string", "pattern": "\\S"},
    "jobSuggestions": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "pattern": "\\S"}
    },
    "style": {"type": "string", "enum": ["Modern", "Classic", "Creative"]}
  }
}`

const ratingContractSchema = `{
  "type": "object",
  "required": ["score", "pros", "cons", "overallFeedback"],
  "properties": {
    "score": {"type": "number", "minimum": 0, "maximum": 10},
    "pros": {"type": "array", "items": {"type": "string"}},
    "cons": {"type": "array", "items": {"type": "string"}},
    "overallFeedback": {"type": "string", "pattern": "\\S"}
  }
}`
