package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-architect/internal/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render an HTML CV to an A4 PDF",
	RunE:  runExport,
}

var (
	exportHTMLFile   string
	exportName       string
	exportOutputFile string
)

func init() {
	exportCmd.Flags().StringVar(&exportHTMLFile, "html", "", "CV HTML file")
	exportCmd.Flags().StringVar(&exportName, "name", "", "Person name used for the default file name")
	exportCmd.Flags().StringVarP(&exportOutputFile, "out", "o", "", "Output PDF (default CV-<name>.pdf)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	html, err := readFile(exportHTMLFile, "html")
	if err != nil {
		return err
	}

	tk, err := newToolkit()
	if err != nil {
		return err
	}
	if tk.renderer == nil {
		return errors.New("rendering is disabled (RENDERER_ENABLED=false)")
	}

	pdf, err := tk.renderer.RenderPDF(context.Background(), html)
	if err != nil {
		return err
	}

	out := exportOutputFile
	if out == "" {
		out = services.ExportFileName(exportName)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	return nil
}
