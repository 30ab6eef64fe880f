package cmd

import (
	"fmt"
	"strings"

	"github.com/byRen2002/decomment/internal/language"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show usage and supported languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, titleStyle.Render("decomment"))
		fmt.Fprintln(out, "Remove comments from source code files.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render("Usage:"))
		fmt.Fprintln(out, "  decomment remove <paths...>          confirm each comment, keep a backup")
		fmt.Fprintln(out, "  decomment remove --auto <paths...>   remove all comments")
		fmt.Fprintln(out, "  decomment remove --auto --force ...  remove all comments, no backup")
		fmt.Fprintln(out, "  decomment scan <file>                list comments")
		fmt.Fprintln(out, "  decomment fingerprint <files...>     comment-insensitive hashes")
		fmt.Fprintln(out)
		fmt.Fprintln(out, headerStyle.Render("Supported languages:"))
		for _, spec := range registry.Languages() {
			fmt.Fprintf(out, "  - %s (%s)\n", spec.Name, extensionList(spec))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, mutedStyle.Render("Rules: "+rulesSource))
		return nil
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Show the comment syntax of each language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, spec := range registry.Languages() {
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render(spec.Name), mutedStyle.Render("["+spec.Identifier+"]"))
			fmt.Fprintf(out, "  extensions: %s\n", extensionList(spec))
			for _, rule := range spec.SingleLine {
				fmt.Fprintf(out, "  single-line: %s%s\n", infoStyle.Render(rule.Pattern), describe(rule.Description))
			}
			for _, rule := range spec.MultiLine {
				fmt.Fprintf(out, "  multi-line:  %s ... %s%s\n",
					infoStyle.Render(rule.Start), infoStyle.Render(rule.End), describe(rule.Description))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(languagesCmd)
}

func extensionList(spec *language.Spec) string {
	exts := make([]string, 0, len(spec.Extensions))
	for _, ext := range spec.Extensions {
		exts = append(exts, "."+ext)
	}
	return strings.Join(exts, ", ")
}

func describe(description string) string {
	if description == "" {
		return ""
	}
	return mutedStyle.Render("  " + description)
}
