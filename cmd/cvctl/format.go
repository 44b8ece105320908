package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Clean raw notes into structured plain text",
	RunE:  runFormat,
}

var (
	formatInputFile  string
	formatOutputFile string
)

func init() {
	formatCmd.Flags().StringVarP(&formatInputFile, "in", "i", "", "Raw notes: text file, PDF, or - for stdin")
	formatCmd.Flags().StringVarP(&formatOutputFile, "out", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(_ *cobra.Command, _ []string) error {
	tk, err := newToolkit()
	if err != nil {
		return err
	}

	rawInfo, err := readRawInfo(tk.pdf, formatInputFile)
	if err != nil {
		return err
	}

	text, err := tk.cv.Format(context.Background(), apiKey(), rawInfo)
	if err != nil {
		return err
	}

	if formatOutputFile == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(formatOutputFile, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", formatOutputFile)
	return nil
}
