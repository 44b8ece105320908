package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-architect/internal/services"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available color themes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printThemes(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func printThemes(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSWATCH")
	for _, t := range services.Themes() {
		fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Main)
	}
	return w.Flush()
}
