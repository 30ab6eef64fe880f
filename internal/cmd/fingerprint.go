package cmd

import (
	"fmt"
	"os"

	"github.com/byRen2002/decomment/internal/common/logger"
	"github.com/byRen2002/decomment/internal/fingerprint"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint [files...]",
	Short: "Compute comment-insensitive TLSH hashes",
	Long: `Compute a TLSH hash of each file's code with comments and layout
removed. With exactly two files the distance between them is printed too;
a distance of 0 means the files differ only in comments or whitespace.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFingerprint,
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)

	fingerprintCmd.Flags().StringP("lang", "l", "", "Treat every file as this language")
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	out := cmd.OutOrStdout()

	prints := make([]*fingerprint.Fingerprint, 0, len(args))
	for _, path := range args {
		spec, err := resolveLanguage(path, lang)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		fp, err := fingerprint.Compute(string(data), spec)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("Computed fingerprint",
			zap.String("path", path),
			zap.String("language", spec.Identifier),
			zap.Int("length", fp.Length))

		fmt.Fprintf(out, "%s  %s\n", fp, path)
		prints = append(prints, fp)
	}

	if len(prints) == 2 {
		distance, err := prints[0].Distance(prints[1])
		if err != nil {
			return err
		}
		style := warningStyle
		if distance == 0 {
			style = successStyle
		}
		fmt.Fprintf(out, "Distance: %s\n", style.Render(fmt.Sprint(distance)))
	}

	return nil
}
