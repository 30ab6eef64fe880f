package cmd

import (
	"fmt"

	"github.com/byRen2002/decomment/internal/common/logger"
	"github.com/byRen2002/decomment/internal/config"
	"github.com/byRen2002/decomment/internal/language"
	"github.com/byRen2002/decomment/internal/processor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile     string
	cfg         *config.Config
	registry    *language.Registry
	rulesSource string
)

var rootCmd = &cobra.Command{
	Use:   "decomment",
	Short: "Remove comments from source code files",
	Long: `decomment finds and removes comments in source files using
per-language comment syntax rules.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./decomment.yaml)")
	rootCmd.PersistentFlags().String("rules", "", "Comment syntax rules file (JSON or YAML)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")

	viper.BindPFlag("rules.file", rootCmd.PersistentFlags().Lookup("rules"))
	viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	if err := logger.Init(cfg.Log.Debug, cfg.Log.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	reg, source, err := language.Discover(cfg.Rules.File)
	if err != nil {
		return fmt.Errorf("failed to load syntax rules: %w", err)
	}
	registry = reg
	rulesSource = source

	logger.Debug("Loaded syntax rules",
		zap.String("source", source),
		zap.Int("languages", reg.Len()))

	return nil
}

// resolveLanguage picks the language for path, or the override when set.
func resolveLanguage(path, override string) (*language.Spec, error) {
	if override != "" {
		return registry.Get(override)
	}
	return processor.ResolvePath(registry, path)
}
