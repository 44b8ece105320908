package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/cv-architect/internal/models"
)

// CVService runs the four model operations: generate, refine, rate and format.
type CVService interface {
	GenerateVariant(ctx context.Context, apiKey string, in VariantInput) (models.GeneratedCv, error)
	GenerateAll(ctx context.Context, apiKey string, in models.GenerateInput) GenerationOutcome
	Refine(ctx context.Context, apiKey string, in models.RefineInput) (models.GeneratedCv, error)
	Rate(ctx context.Context, apiKey string, in models.RateInput) (models.CvRatingReport, error)
	Format(ctx context.Context, apiKey, rawInfo string) (string, error)
}

// VariantInput is a generation request for a single style.
type VariantInput struct {
	RawInfo    string
	ImageURL   string
	Style      models.CvStyle
	FormatType models.CvFormatType
	Theme      string
}

// GenerationOutcome keeps successful variants in request order. Failures are
// reported per style and never cancel the other variants.
type GenerationOutcome struct {
	CVs      []models.GeneratedCv
	Failures []error
}

// FailureMessages returns the user-facing text of every failed variant.
func (o GenerationOutcome) FailureMessages() []string {
	msgs := make([]string, len(o.Failures))
	for i, err := range o.Failures {
		msgs[i] = err.Error()
	}
	return msgs
}

// PNGRenderer screenshots CV HTML. Rate uses it when no image is supplied.
type PNGRenderer interface {
	RenderPNG(ctx context.Context, html string) ([]byte, error)
}

type cvService struct {
	geminiService GeminiService
	validator     *ContractValidator
	promptBuilder *PromptBuilder
	renderer      PNGRenderer
	parallelism   int
}

// NewCVService wires the operations. renderer may be nil, in which case
// rating requires a caller-supplied image.
func NewCVService(geminiService GeminiService, validator *ContractValidator, renderer PNGRenderer, parallelism int) CVService {
	if parallelism <= 0 {
		parallelism = len(models.AllStyles)
	}
	return &cvService{
		geminiService: geminiService,
		validator:     validator,
		promptBuilder: NewPromptBuilder(),
		renderer:      renderer,
		parallelism:   parallelism,
	}
}

func (s *cvService) GenerateVariant(ctx context.Context, apiKey string, in VariantInput) (models.GeneratedCv, error) {
	prompt := s.promptBuilder.BuildGenerationPrompt(in.RawInfo, in.ImageURL, in.Style, in.FormatType, in.Theme)
	log.Printf("📝 Generation prompt (%s) length: %d characters\n", in.Style, len(prompt))

	resp, err := s.geminiService.Invoke(ctx, apiKey, Invocation{
		Op:     OpGenerate,
		Style:  in.Style,
		Prompt: prompt,
		Schema: cvResponseSchema,
	})
	if err != nil {
		return models.GeneratedCv{}, err
	}

	cv, err := s.validator.ValidateCV(OpGenerate, resp.Decoded)
	if err != nil {
		log.Printf("❌ Generation (%s) broke the response contract: %v\n", in.Style, err)
		return models.GeneratedCv{}, newInvocationError(OpGenerate, in.Style, KindMalformedResponse, err)
	}
	return cv, nil
}

// GenerateAll generates one variant per requested style, all styles when none
// are given. Each variant is independent.
func (s *cvService) GenerateAll(ctx context.Context, apiKey string, in models.GenerateInput) GenerationOutcome {
	styles := in.Styles
	if len(styles) == 0 {
		styles = models.AllStyles
	}

	results := make([]models.GeneratedCv, len(styles))
	errs := make([]error, len(styles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, style := range styles {
		g.Go(func() error {
			cv, err := s.GenerateVariant(gctx, apiKey, VariantInput{
				RawInfo:    in.RawInfo,
				ImageURL:   in.ImageURL,
				Style:      style,
				FormatType: in.FormatType,
				Theme:      in.Theme,
			})
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = cv
			return nil
		})
	}
	_ = g.Wait()

	var outcome GenerationOutcome
	for i := range styles {
		if errs[i] != nil {
			outcome.Failures = append(outcome.Failures, errs[i])
			continue
		}
		outcome.CVs = append(outcome.CVs, results[i])
	}

	log.Printf("✅ Generation finished: %d succeeded, %d failed\n", len(outcome.CVs), len(outcome.Failures))
	return outcome
}

func (s *cvService) Refine(ctx context.Context, apiKey string, in models.RefineInput) (models.GeneratedCv, error) {
	prompt := s.promptBuilder.BuildRefinementPrompt(in.CurrentHTML, in.EditRequest, in.Theme, in.ImageURL)
	log.Printf("📝 Refinement prompt length: %d characters\n", len(prompt))

	resp, err := s.geminiService.Invoke(ctx, apiKey, Invocation{
		Op:     OpRefine,
		Prompt: prompt,
		Schema: cvResponseSchema,
	})
	if err != nil {
		return models.GeneratedCv{}, err
	}

	cv, err := s.validator.ValidateCV(OpRefine, resp.Decoded)
	if err != nil {
		log.Printf("❌ Refinement broke the response contract: %v\n", err)
		return models.GeneratedCv{}, newInvocationError(OpRefine, "", KindMalformedResponse, err)
	}
	return cv, nil
}

func (s *cvService) Rate(ctx context.Context, apiKey string, in models.RateInput) (models.CvRatingReport, error) {
	image := in.Image
	if image == "" && s.renderer != nil && strings.TrimSpace(apiKey) != "" {
		log.Println("📸 No image supplied, rendering CV for rating...")
		png, err := s.renderer.RenderPNG(ctx, in.HTML)
		if err != nil {
			return models.CvRatingReport{}, newInvocationError(OpRate, "", KindGenericService, fmt.Errorf("could not capture CV image: %w", err))
		}
		image = EncodePNGDataURI(png)
	}

	resp, err := s.geminiService.Invoke(ctx, apiKey, Invocation{
		Op:           OpRate,
		Prompt:       s.promptBuilder.BuildRatingPrompt(in.HTML),
		ImageDataURI: image,
		Schema:       ratingResponseSchema,
	})
	if err != nil {
		return models.CvRatingReport{}, err
	}

	report, err := s.validator.ValidateRating(resp.Decoded)
	if err != nil {
		log.Printf("❌ Rating broke the response contract: %v\n", err)
		return models.CvRatingReport{}, newInvocationError(OpRate, "", KindMalformedResponse, err)
	}
	return report, nil
}

func (s *cvService) Format(ctx context.Context, apiKey, rawInfo string) (string, error) {
	resp, err := s.geminiService.Invoke(ctx, apiKey, Invocation{
		Op:     OpFormat,
		Prompt: s.promptBuilder.BuildFormattingPrompt(rawInfo),
	})
	if err != nil {
		return "", err
	}

	if resp.Text == "" {
		log.Println("⚠️ Empty response received from Gemini API during formatting")
		return "", newInvocationError(OpFormat, "", KindEmptyFormatting, ErrEmptyFormatting)
	}
	return resp.Text, nil
}
