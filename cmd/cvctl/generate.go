package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-architect/internal/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate styled CV variants from raw notes",
	Long:  "Generate one HTML CV per requested style (default: Modern, Classic and Creative) and write them as JSON.",
	RunE:  runGenerate,
}

var (
	generateInputFile  string
	generateOutputFile string
	generateStyles     []string
	generateTheme      string
	generateFormatType string
	generateImageURL   string
)

func init() {
	generateCmd.Flags().StringVarP(&generateInputFile, "in", "i", "", "Raw notes: text file, PDF, or - for stdin")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Output JSON file (default stdout)")
	generateCmd.Flags().StringSliceVar(&generateStyles, "style", nil, "Styles to generate: Modern, Classic, Creative (repeatable)")
	generateCmd.Flags().StringVar(&generateTheme, "theme", "Indigo", "Color theme name")
	generateCmd.Flags().StringVar(&generateFormatType, "format-type", string(models.FormatChronological), "Chronological, Functional or Combination")
	generateCmd.Flags().StringVar(&generateImageURL, "image", "", "Profile image URL")

	rootCmd.AddCommand(generateCmd)
}

type generateOutput struct {
	CVs      []models.GeneratedCv `json:"cvs"`
	Failures []string             `json:"failures,omitempty"`
}

func runGenerate(_ *cobra.Command, _ []string) error {
	formatType := models.CvFormatType(generateFormatType)
	if !formatType.Valid() {
		return fmt.Errorf("invalid --format-type %q", generateFormatType)
	}

	styles := make([]models.CvStyle, 0, len(generateStyles))
	for _, name := range generateStyles {
		style, err := models.ParseStyle(name)
		if err != nil {
			return err
		}
		styles = append(styles, style)
	}

	tk, err := newToolkit()
	if err != nil {
		return err
	}

	rawInfo, err := readRawInfo(tk.pdf, generateInputFile)
	if err != nil {
		return err
	}

	outcome := tk.cv.GenerateAll(context.Background(), apiKey(), models.GenerateInput{
		RawInfo:    rawInfo,
		ImageURL:   generateImageURL,
		FormatType: formatType,
		Theme:      generateTheme,
		Styles:     styles,
	})

	for _, msg := range outcome.FailureMessages() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
	if len(outcome.CVs) == 0 {
		if len(outcome.Failures) > 0 {
			return outcome.Failures[0]
		}
		return errors.New("no CVs were generated")
	}

	return writeJSON(generateOutputFile, generateOutput{
		CVs:      outcome.CVs,
		Failures: outcome.FailureMessages(),
	})
}
