package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/services"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Get a recruiter style rating of an HTML CV",
	Long:  "Rate a CV from its HTML and a PNG screenshot. Without --image the CV is rendered with headless Chrome.",
	RunE:  runRate,
}

var (
	rateHTMLFile   string
	rateImageFile  string
	rateOutputFile string
)

func init() {
	rateCmd.Flags().StringVar(&rateHTMLFile, "html", "", "CV HTML file")
	rateCmd.Flags().StringVar(&rateImageFile, "image", "", "PNG screenshot of the CV")
	rateCmd.Flags().StringVarP(&rateOutputFile, "out", "o", "", "Output JSON file (default stdout)")

	rootCmd.AddCommand(rateCmd)
}

func runRate(_ *cobra.Command, _ []string) error {
	html, err := readFile(rateHTMLFile, "html")
	if err != nil {
		return err
	}

	var image string
	if rateImageFile != "" {
		png, err := os.ReadFile(rateImageFile)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		image = services.EncodePNGDataURI(png)
	}

	tk, err := newToolkit()
	if err != nil {
		return err
	}

	report, err := tk.cv.Rate(context.Background(), apiKey(), models.RateInput{HTML: html, Image: image})
	if err != nil {
		return err
	}
	return writeJSON(rateOutputFile, report)
}
