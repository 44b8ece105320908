package main

import (
	"context"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-architect/internal/models"
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Apply a natural language edit to an HTML CV",
	RunE:  runRefine,
}

var (
	refineHTMLFile   string
	refineRequest    string
	refineTheme      string
	refineImageURL   string
	refineOutputFile string
)

func init() {
	refineCmd.Flags().StringVar(&refineHTMLFile, "html", "", "Current CV HTML file")
	refineCmd.Flags().StringVarP(&refineRequest, "request", "r", "", "Edit request, e.g. \"make the summary shorter\"")
	refineCmd.Flags().StringVar(&refineTheme, "theme", "Indigo", "Color theme name")
	refineCmd.Flags().StringVar(&refineImageURL, "image", "", "Profile image URL")
	refineCmd.Flags().StringVarP(&refineOutputFile, "out", "o", "", "Output JSON file (default stdout)")
	_ = refineCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(refineCmd)
}

func runRefine(_ *cobra.Command, _ []string) error {
	html, err := readFile(refineHTMLFile, "html")
	if err != nil {
		return err
	}

	tk, err := newToolkit()
	if err != nil {
		return err
	}

	cv, err := tk.cv.Refine(context.Background(), apiKey(), models.RefineInput{
		CurrentHTML: html,
		EditRequest: refineRequest,
		Theme:       refineTheme,
		ImageURL:    refineImageURL,
	})
	if err != nil {
		return err
	}
	return writeJSON(refineOutputFile, cv)
}
