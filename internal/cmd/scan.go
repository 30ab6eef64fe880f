package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/byRen2002/decomment/internal/scanner"
	"github.com/byRen2002/decomment/internal/stripper"
	"github.com/spf13/cobra"
)

const snippetLength = 60

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "List the comments in a source file",
	Long: `List every comment found in a source file with its line, kind and
marker. The file is not modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("lang", "l", "", "Treat the file as this language")
	scanCmd.Flags().Bool("standalone-only", false, "Only list comments on lines of their own")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := args[0]
	lang, _ := cmd.Flags().GetString("lang")
	standalone, _ := cmd.Flags().GetBool("standalone-only")

	spec, err := resolveLanguage(path, lang)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	src := string(data)

	spans := stripper.Select(src, scanner.All(src, spec), stripper.Options{StandaloneOnly: standalone})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%s)\n", headerStyle.Render("Comments in"), path, successStyle.Render(spec.Name))
	for _, span := range spans {
		line := fmt.Sprintf("%5d  %-11s %-4s %5dB  %s",
			scanner.LineOf(src, span.Start), span.Kind, span.Marker, span.Len(), snippet(span.Text(src)))
		if span.Unterminated {
			line += " " + warningStyle.Render("(unterminated)")
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d comment(s)", len(spans))))

	return nil
}

// snippet flattens text to one line and shortens it for display.
func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > snippetLength {
		return text[:snippetLength-3] + "..."
	}
	return text
}
