package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/byRen2002/decomment/internal/common/logger"
	"github.com/byRen2002/decomment/internal/processor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var removeCmd = &cobra.Command{
	Use:   "remove [paths...]",
	Short: "Remove comments from source files",
	Long: `Remove comments from source files and directories.

By default every comment is shown and confirmed before removal, and a
backup (.bak) of each modified file is written. Use --auto to remove all
comments without asking and --force to skip the backup.`,
	Example: `  decomment remove main.rs
  decomment remove --auto main.rs
  decomment remove --auto --force --policy blank ./src`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().BoolP("auto", "a", false, "Remove all comments without asking")
	removeCmd.Flags().BoolP("force", "f", false, "Overwrite files without creating a backup")
	removeCmd.Flags().BoolP("verbose", "v", false, "Show detailed statistics")
	removeCmd.Flags().StringP("policy", "p", "remove", "Replacement for removed comments: remove, space or blank")
	removeCmd.Flags().Bool("standalone-only", false, "Keep comments that follow code on the same line")
	removeCmd.Flags().BoolP("dry-run", "n", false, "Report what would change without writing files")
	removeCmd.Flags().StringP("lang", "l", "", "Treat every file as this language")
	removeCmd.Flags().StringSlice("include", nil, "Glob of files to process when walking directories")
	removeCmd.Flags().StringSlice("exclude", nil, "Glob of files and directories to skip")
	removeCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (0 = CPU count)")

	viper.BindPFlag("strip.policy", removeCmd.Flags().Lookup("policy"))
	viper.BindPFlag("strip.standalone_only", removeCmd.Flags().Lookup("standalone-only"))
	viper.BindPFlag("strip.dry_run", removeCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("strip.language", removeCmd.Flags().Lookup("lang"))
	viper.BindPFlag("files.include", removeCmd.Flags().Lookup("include"))
	viper.BindPFlag("files.exclude", removeCmd.Flags().Lookup("exclude"))
	viper.BindPFlag("performance.max_workers", removeCmd.Flags().Lookup("workers"))
}

func runRemove(cmd *cobra.Command, args []string) error {
	auto, _ := cmd.Flags().GetBool("auto")
	force, _ := cmd.Flags().GetBool("force")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := processor.Options{
		Policy:         cfg.Policy(),
		StandaloneOnly: cfg.Strip.StandaloneOnly,
		Language:       cfg.Strip.Language,
		Backup:         cfg.Strip.Backup && !force,
		BackupSuffix:   cfg.Strip.BackupSuffix,
		DryRun:         cfg.Strip.DryRun,
		Include:        cfg.Files.Include,
		Exclude:        cfg.Files.Exclude,
		MaxWorkers:     cfg.Performance.MaxWorkers,
		CacheSize:      cfg.Performance.CacheSize,
		ReportInterval: cfg.Performance.ReportInterval,
	}
	if !auto {
		opts.Confirm = confirmComment(cmd.OutOrStdout())
	}

	p, err := processor.New(registry, opts)
	if err != nil {
		return err
	}

	logger.Info("Starting comment removal",
		zap.Strings("paths", args),
		zap.String("policy", opts.Policy.String()),
		zap.Bool("dry_run", opts.DryRun))

	results, err := p.Process(context.Background(), args)
	for _, r := range results {
		printResult(cmd, r, opts.DryRun, verbose)
	}
	if err != nil {
		return err
	}

	stats := p.Stats()
	if verbose || len(results) > 1 {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Statistics:"))
		fmt.Fprintf(cmd.OutOrStdout(), "  - Files processed: %d (%d changed)\n", stats.Files, stats.Changed)
		fmt.Fprintf(cmd.OutOrStdout(), "  - Total comments found: %d\n", stats.CommentsFound)
		fmt.Fprintf(cmd.OutOrStdout(), "  - Comments removed: %d\n", stats.CommentsRemoved)
		fmt.Fprintf(cmd.OutOrStdout(), "  - Comments preserved: %d\n", stats.Preserved())
		if stats.Unterminated > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  - Unterminated comments: %d\n", stats.Unterminated)
		}
	}

	p.Monitor().Log("Comment removal completed")
	return nil
}

func printResult(cmd *cobra.Command, r *processor.Result, dryRun, verbose bool) {
	out := cmd.OutOrStdout()

	if verbose {
		fmt.Fprintf(out, "Detected language for %s: %s\n", r.Path, successStyle.Render(r.Language))
	}

	switch {
	case !r.Changed:
		fmt.Fprintf(out, "No comments were removed from: %s\n", warningStyle.Render(r.Path))
	case dryRun:
		fmt.Fprintf(out, "Would remove %d of %d comments from: %s\n", r.Removed, r.Found, infoStyle.Render(r.Path))
	default:
		if r.BackupPath != "" {
			fmt.Fprintf(out, "Created backup file: %s\n", infoStyle.Render(r.BackupPath))
		}
		fmt.Fprintf(out, "Successfully removed comments from: %s\n", successStyle.Render(r.Path))
	}

	if verbose {
		fmt.Fprintf(out, "  - Comments found: %d, removed: %d, preserved: %d\n", r.Found, r.Removed, r.Preserved())
		if r.Unterminated > 0 {
			fmt.Fprintf(out, "  - %s\n", warningStyle.Render(fmt.Sprintf("%d unterminated comment(s) run to end of file", r.Unterminated)))
		}
	}
}

// confirmComment shows each comment on out and asks whether to remove it.
func confirmComment(out io.Writer) processor.ConfirmFunc {
	return func(path, comment string) (bool, error) {
		showComment(out, path, comment)

		remove := false
		prompt := &survey.Confirm{
			Message: "Remove this comment?",
			Default: false,
		}
		if err := survey.AskOne(prompt, &remove); err != nil {
			return false, err
		}
		return remove, nil
	}
}

func showComment(out io.Writer, path, comment string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, mutedStyle.Render("Found comment in "+path+":"))
	fmt.Fprintln(out, commentStyle.Render(comment))
}
