package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/cv-architect/internal/config"
	"alfredoptarigan/cv-architect/internal/services"
)

// apiKey resolves the credential. An empty key is passed through so the
// service reports the missing credential itself.
func apiKey() string {
	if apiKeyFlag != "" {
		return apiKeyFlag
	}
	return os.Getenv("GEMINI_API_KEY")
}

type toolkit struct {
	cv       services.CVService
	renderer services.Renderer
	pdf      services.PDFParserService
}

func newToolkit() (*toolkit, error) {
	cfg := config.FromEnv()

	validator, err := services.NewContractValidator()
	if err != nil {
		return nil, err
	}

	var renderer services.Renderer
	var pngRenderer services.PNGRenderer
	if cfg.Renderer.Enabled {
		renderer = services.NewRenderer(cfg.Renderer.Timeout, cfg.Renderer.TailwindURL)
		pngRenderer = renderer
	}

	gemini := services.NewGeminiService(cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Temperature)
	return &toolkit{
		cv:       services.NewCVService(gemini, validator, pngRenderer, cfg.Worker.GenerationParallelism),
		renderer: renderer,
		pdf:      services.NewPDFParserService(),
	}, nil
}

// readRawInfo reads notes from a text file, a PDF, or stdin when path is "-".
func readRawInfo(pdf services.PDFParserService, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--in is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		content, err := pdf.ExtractTextFromFile(path)
		if err != nil {
			return "", err
		}
		return content.Text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

func readFile(path, flag string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
