package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"alfredoptarigan/cv-architect/internal/models"
)

const (
	DefaultModel = "gemini-2.5-flash"

	pngDataURIPrefix = "data:image/png;base64,"
)

// Invocation is one request to the model service.
type Invocation struct {
	Op Operation
	// Style only affects error wording for generation.
	Style  models.CvStyle
	Prompt string
	// ImageDataURI must be a data:image/png;base64 URI; rating only.
	ImageDataURI string
	// Schema declares the expected response shape. Nil means plain text.
	Schema *genai.Schema
}

// Response is the raw outcome of an invocation. Decoded is set only when a
// schema was declared.
type Response struct {
	Text    string
	Decoded any
}

// GeminiService performs single request/response exchanges with the model.
// It never retries; every failure is an *InvocationError.
type GeminiService interface {
	Invoke(ctx context.Context, apiKey string, inv Invocation) (*Response, error)
	Model() string
}

// contentGenerator is the transport seam; production code builds a genai
// client per credential.
type contentGenerator func(ctx context.Context, apiKey, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type geminiService struct {
	generate    contentGenerator
	modelName   string
	temperature *float32
}

// NewGeminiService creates the client. baseURL may be empty to use the public
// endpoint; temperature may be nil to use the model default.
func NewGeminiService(modelName, baseURL string, temperature *float32) GeminiService {
	return newGeminiServiceWithGenerator(sdkGenerator(baseURL), modelName, temperature)
}

func newGeminiServiceWithGenerator(generate contentGenerator, modelName string, temperature *float32) *geminiService {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &geminiService{
		generate:    generate,
		modelName:   modelName,
		temperature: temperature,
	}
}

func sdkGenerator(baseURL string) contentGenerator {
	return func(ctx context.Context, apiKey, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      apiKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return client.Models.GenerateContent(ctx, model, contents, config)
	}
}

// Model implements GeminiService.
func (g *geminiService) Model() string {
	return g.modelName
}

// Invoke implements GeminiService.
func (g *geminiService) Invoke(ctx context.Context, apiKey string, inv Invocation) (*Response, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, newInvocationError(inv.Op, inv.Style, KindMissingCredential, ErrMissingCredential)
	}

	contents := genai.Text(inv.Prompt)
	if inv.Op == OpRate {
		image, err := DecodePNGDataURI(inv.ImageDataURI)
		if err != nil {
			return nil, newInvocationError(inv.Op, inv.Style, KindInvalidImageFormat, err)
		}
		contents = []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromBytes(image, "image/png"),
				genai.NewPartFromText(inv.Prompt),
			}, genai.RoleUser),
		}
	}

	config := &genai.GenerateContentConfig{Temperature: g.temperature}
	if inv.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = inv.Schema
	}

	log.Printf("🤖 Gemini %s request: model=%s prompt=%d chars\n", inv.Op, g.modelName, len(inv.Prompt))

	resp, err := g.generate(ctx, apiKey, g.modelName, contents, config)
	if err != nil {
		log.Printf("❌ Gemini %s error: %v\n", inv.Op, err)
		return nil, newInvocationError(inv.Op, inv.Style, classifyServiceError(err), err)
	}
	if resp == nil {
		return nil, newInvocationError(inv.Op, inv.Style, KindGenericService, errors.New("no response generated (nil response)"))
	}

	text := strings.TrimSpace(resp.Text())
	log.Printf("📊 Gemini %s response received: %d characters\n", inv.Op, len(text))

	out := &Response{Text: text}
	if inv.Schema == nil {
		return out, nil
	}

	decoded, err := DecodeResponse(text)
	if err != nil {
		return nil, newInvocationError(inv.Op, inv.Style, KindMalformedResponse, err)
	}
	out.Decoded = decoded
	return out, nil
}

// classifyServiceError maps SDK and transport failures onto the taxonomy.
func classifyServiceError(err error) ErrorKind {
	code, status, message := 0, "", err.Error()

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code, status = apiErr.Code, apiErr.Status
		message = apiErr.Message + " " + message
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code, status = apiErrPtr.Code, apiErrPtr.Status
		message = apiErrPtr.Message + " " + message
	}

	switch {
	case strings.Contains(message, "API key not valid"), code == 401, status == "UNAUTHENTICATED":
		return KindInvalidCredential
	case code >= 500, strings.Contains(message, "500") && strings.Contains(message, "Rpc failed"):
		return KindTransientService
	}
	return KindGenericService
}

// DecodePNGDataURI returns the PNG bytes of a data:image/png;base64 URI.
func DecodePNGDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, pngDataURIPrefix) {
		return nil, ErrInvalidImageFormat
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, pngDataURIPrefix))
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImageFormat
	}
	return data, nil
}

// EncodePNGDataURI is the inverse of DecodePNGDataURI.
func EncodePNGDataURI(png []byte) string {
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(png)
}
